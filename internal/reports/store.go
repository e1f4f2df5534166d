package reports

import (
	"context"
	"database/sql"
	"time"

	"biblioteca-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

// Dashboard is the librarian's front-page summary.
type Dashboard struct {
	Publications    int `json:"publications"`
	Copies          int `json:"copies"`
	CopiesAvailable int `json:"copies_available"`
	CopiesOnLoan    int `json:"copies_on_loan"`
	Users           int `json:"users"`
	TotalLoans      int `json:"total_loans"`
	OpenLoans       int `json:"open_loans"`
	OverdueLoans    int `json:"overdue_loans"`
	ActiveSanctions int `json:"active_sanctions"`
}

// TopRow is one entry of the most-borrowed ranking.
type TopRow struct {
	PublicationID int64  `json:"publication_id"`
	Title         string `json:"title"`
	Kind          string `json:"kind"`
	LoanCount     int    `json:"loan_count"`
}

func count(ctx context.Context, tx db.DBTX, query string, args ...any) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// Dashboard gathers its counters inside one read-only transaction so
// they describe a single point in time.
func (s *Store) Dashboard(ctx context.Context, today time.Time) (*Dashboard, error) {
	var d Dashboard
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		var err error
		if d.Publications, err = count(ctx, tx, `SELECT COUNT(*) FROM libros`); err != nil {
			return err
		}
		if d.Copies, err = count(ctx, tx, `SELECT COUNT(*) FROM ejemplares`); err != nil {
			return err
		}
		if d.CopiesAvailable, err = count(ctx, tx,
			`SELECT COUNT(*) FROM ejemplares WHERE estado = 'DISPONIBLE'`); err != nil {
			return err
		}
		d.CopiesOnLoan = d.Copies - d.CopiesAvailable

		if d.Users, err = count(ctx, tx, `SELECT COUNT(*) FROM usuarios`); err != nil {
			return err
		}
		if d.TotalLoans, err = count(ctx, tx, `SELECT COUNT(*) FROM prestamos`); err != nil {
			return err
		}
		if d.OpenLoans, err = count(ctx, tx,
			`SELECT COUNT(*) FROM prestamos WHERE fecha_devolucion_real IS NULL`); err != nil {
			return err
		}
		if d.OverdueLoans, err = count(ctx, tx,
			`SELECT COUNT(*) FROM prestamos WHERE fecha_devolucion_real IS NULL AND fecha_devolucion_prevista < ?`,
			today); err != nil {
			return err
		}
		d.ActiveSanctions, err = count(ctx, tx,
			`SELECT COUNT(*) FROM sanciones WHERE estado = 'ACTIVA'`)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) TopBorrowed(ctx context.Context, limit int) ([]TopRow, error) {
	const q = `
	SELECT l.id, l.titulo, l.tipo_publicacion, COUNT(p.id) AS prestamos
	FROM libros l
	JOIN ejemplares e ON e.libro_id = l.id
	JOIN prestamos p ON p.ejemplar_id = e.id
	GROUP BY l.id, l.titulo, l.tipo_publicacion
	ORDER BY prestamos DESC, l.titulo ASC
	LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TopRow
	for rows.Next() {
		var r TopRow
		if err := rows.Scan(&r.PublicationID, &r.Title, &r.Kind, &r.LoanCount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
