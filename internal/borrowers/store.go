package borrowers

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"biblioteca-backend/internal/platform/apperr"
	"biblioteca-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

const userCols = `id, dni, nombre, tipo, email, sancionado_hasta`

type rowScanner interface{ Scan(dest ...any) error }

func scanBorrower(row rowScanner) (*Borrower, error) {
	var b Borrower
	var typ string
	err := row.Scan(&b.ID, &b.DNI, &b.Name, &typ, &b.Email, &b.SanctionedUntil)
	if err != nil {
		return nil, err
	}
	b.Type, err = ParseUserType(typ)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) CreateUser(ctx context.Context, b *Borrower) error {
	const q = `INSERT INTO usuarios (dni, nombre, tipo, email) VALUES (?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, b.DNI, b.Name, string(b.Type), b.Email)
	if err != nil {
		return apperr.FromMySQL(err, "dni already registered")
	}
	b.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetUser(ctx context.Context, id int64) (*Borrower, error) {
	q := `SELECT ` + userCols + ` FROM usuarios WHERE id = ?`
	b, err := scanBorrower(s.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound("user not found")
	}
	return b, err
}

func (s *Store) GetUserByDNI(ctx context.Context, dni string) (*Borrower, error) {
	q := `SELECT ` + userCols + ` FROM usuarios WHERE dni = ?`
	b, err := scanBorrower(s.db.QueryRowContext(ctx, q, dni))
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound("user not found")
	}
	return b, err
}

func (s *Store) ListUsers(ctx context.Context, f UserFilter) ([]Borrower, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + userCols + ` FROM usuarios WHERE 1=1`)
	args := []any{}
	if f.Query != "" {
		sb.WriteString(` AND (nombre LIKE ? OR dni LIKE ? OR email LIKE ?)`)
		like := "%" + f.Query + "%"
		args = append(args, like, like, like)
	}
	if f.Type != nil {
		sb.WriteString(` AND tipo = ?`)
		args = append(args, string(*f.Type))
	}
	sb.WriteString(` ORDER BY nombre ASC`)
	if f.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Borrower
	for rows.Next() {
		b, err := scanBorrower(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, id int64, in UpdateUserRequest, typ *UserType) (*Borrower, error) {
	sets := []string{}
	args := []any{}
	if in.Name != nil {
		sets = append(sets, "nombre = ?")
		args = append(args, *in.Name)
	}
	if typ != nil {
		sets = append(sets, "tipo = ?")
		args = append(args, string(*typ))
	}
	if in.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *in.Email)
	}
	if len(sets) == 0 {
		return s.GetUser(ctx, id)
	}

	q := `UPDATE usuarios SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// ExecDeleteUser removes the user. Blocked while any loan is still
// open; returned loan history cascades away with the row.
func (s *Store) ExecDeleteUser(ctx context.Context, id int64) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		const qOpen = `
		SELECT COUNT(*) FROM prestamos
		WHERE usuario_id = ? AND fecha_devolucion_real IS NULL FOR UPDATE`
		var open int
		if err := tx.QueryRowContext(ctx, qOpen, id).Scan(&open); err != nil {
			return err
		}
		if open > 0 {
			return apperr.ErrConflict("user has loans outstanding")
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM usuarios WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if aff, _ := res.RowsAffected(); aff == 0 {
			return apperr.ErrNotFound("user not found")
		}
		return nil
	})
}

// HasActiveSanction reports whether the user is barred from borrowing
// today. The sanciones table is the authority, not sancionado_hasta.
func (s *Store) HasActiveSanction(ctx context.Context, userID int64, today time.Time) (bool, error) {
	const q = `
	SELECT COUNT(*) FROM sanciones
	WHERE usuario_id = ? AND estado = 'ACTIVA' AND fecha_fin >= ?`
	var n int
	if err := s.db.QueryRowContext(ctx, q, userID, today).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// HasOutstandingMagazineLoan reports whether the user currently holds a
// magazine copy. Non-teachers may hold at most one at a time.
func (s *Store) HasOutstandingMagazineLoan(ctx context.Context, userID int64) (bool, error) {
	const q = `
	SELECT COUNT(*)
	FROM prestamos p
	JOIN ejemplares e ON e.id = p.ejemplar_id
	JOIN libros l ON l.id = e.libro_id
	WHERE p.usuario_id = ? AND p.fecha_devolucion_real IS NULL
	  AND l.tipo_publicacion = 'REVISTA'`
	var n int
	if err := s.db.QueryRowContext(ctx, q, userID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
