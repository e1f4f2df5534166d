package loans

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"biblioteca-backend/internal/borrowers"
	"biblioteca-backend/internal/catalog"
	"biblioteca-backend/internal/platform/apperr"
	"biblioteca-backend/internal/platform/db"
	"biblioteca-backend/internal/sanctions"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

// GetPublicationMeta fetches just what the lending rules need.
func (s *Store) GetPublicationMeta(ctx context.Context, pubID int64) (catalog.Kind, string, error) {
	var kind, title string
	err := s.db.QueryRowContext(ctx,
		`SELECT tipo_publicacion, titulo FROM libros WHERE id = ?`, pubID).Scan(&kind, &title)
	if err == sql.ErrNoRows {
		return "", "", apperr.ErrNotFound("publication not found")
	}
	if err != nil {
		return "", "", err
	}
	k, err := catalog.ParseKind(kind)
	return k, title, err
}

// ExecGrantLoan picks an available copy under a row lock, records the
// loan and flips the copy to PRESTADO, all in one transaction. Two
// concurrent grants against the last copy serialize on the lock; the
// loser sees no free copy.
func (s *Store) ExecGrantLoan(ctx context.Context, pubID int64, loan *Loan) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		const qPick = `
		SELECT id FROM ejemplares
		WHERE libro_id = ? AND estado = 'DISPONIBLE'
		LIMIT 1 FOR UPDATE`
		err := tx.QueryRowContext(ctx, qPick, pubID).Scan(&loan.CopyID)
		if err == sql.ErrNoRows {
			return apperr.ErrOutOfStock("no copies available")
		}
		if err != nil {
			return err
		}

		const qInsert = `
		INSERT INTO prestamos (loan_ulid, usuario_id, ejemplar_id, fecha_prestamo, fecha_devolucion_prevista)
		VALUES (?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, qInsert,
			loan.ULID, loan.UserID, loan.CopyID, loan.LoanDate, loan.ExpectedReturn)
		if err != nil {
			return apperr.FromMySQL(err, "loan id already used")
		}
		if loan.ID, err = res.LastInsertId(); err != nil {
			return err
		}

		return catalog.MarkLoanedTx(ctx, tx, loan.CopyID)
	})
}

const detailQuery = `
	SELECT p.id, p.loan_ulid, p.usuario_id, p.ejemplar_id,
	       p.fecha_prestamo, p.fecha_devolucion_prevista, p.fecha_devolucion_real,
	       u.dni, u.nombre, u.tipo,
	       e.codigo_ejemplar, l.id, l.titulo, l.tipo_publicacion
	FROM prestamos p
	JOIN usuarios u ON u.id = p.usuario_id
	JOIN ejemplares e ON e.id = p.ejemplar_id
	JOIN libros l ON l.id = e.libro_id`

type rowScanner interface{ Scan(dest ...any) error }

func scanDetail(row rowScanner) (*Detail, error) {
	var d Detail
	var userType, kind string
	err := row.Scan(&d.ID, &d.ULID, &d.UserID, &d.CopyID,
		&d.LoanDate, &d.ExpectedReturn, &d.ActualReturn,
		&d.UserDNI, &d.UserName, &userType,
		&d.CopyCode, &d.PublicationID, &d.Title, &kind)
	if err != nil {
		return nil, err
	}
	if d.UserType, err = borrowers.ParseUserType(userType); err != nil {
		return nil, err
	}
	d.Kind, err = catalog.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) GetLoanDetail(ctx context.Context, id int64) (*Detail, error) {
	d, err := scanDetail(s.db.QueryRowContext(ctx, detailQuery+` WHERE p.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound("loan not found")
	}
	return d, err
}

// ExecReturnLoan stamps the return date, persists the sanction when the
// policy produced one and frees the copy, all in one transaction. The
// guarded UPDATE makes a second return a no-op that surfaces as
// ALREADY_RETURNED instead of silently rewriting history.
func (s *Store) ExecReturnLoan(ctx context.Context, loanID, copyID int64, returnDate time.Time, sanction *sanctions.Sanction) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		const qStamp = `
		UPDATE prestamos SET fecha_devolucion_real = ?
		WHERE id = ? AND fecha_devolucion_real IS NULL`
		res, err := tx.ExecContext(ctx, qStamp, returnDate, loanID)
		if err != nil {
			return err
		}
		if aff, _ := res.RowsAffected(); aff == 0 {
			return apperr.ErrAlreadyReturned("loan already returned")
		}

		if sanction != nil {
			if err := sanctions.InsertSanctionTx(ctx, tx, sanction); err != nil {
				return err
			}
		}

		return catalog.MarkAvailableTx(ctx, tx, copyID)
	})
}

func (s *Store) ListLoans(ctx context.Context, f Filter) ([]Detail, error) {
	sb := strings.Builder{}
	sb.WriteString(detailQuery + ` WHERE 1=1`)
	args := []any{}
	if f.Query != "" {
		sb.WriteString(` AND (u.nombre LIKE ? OR u.dni LIKE ? OR l.titulo LIKE ?)`)
		like := "%" + f.Query + "%"
		args = append(args, like, like, like)
	}
	switch f.State {
	case loanStateOpen:
		sb.WriteString(` AND p.fecha_devolucion_real IS NULL`)
	case loanStateReturned:
		sb.WriteString(` AND p.fecha_devolucion_real IS NOT NULL`)
	}
	sb.WriteString(` ORDER BY p.id DESC`)
	if f.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}
