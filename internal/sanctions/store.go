package sanctions

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

// InsertSanctionTx persists a sanction inside the caller's transaction,
// so a return and its penalty commit or roll back together. It also
// refreshes the denormalized usuarios.sancionado_hasta marker.
func InsertSanctionTx(ctx context.Context, tx db.DBTX, s *Sanction) error {
	const q = `
	INSERT INTO sanciones (usuario_id, motivo, fecha_inicio, fecha_fin, dias_sancion, estado)
	VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.UserID, s.Reason, s.StartDate, s.EndDate, s.Days, string(s.State))
	if err != nil {
		return apperr.FromMySQL(err, "sanction already exists")
	}
	if s.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	const qMark = `
	UPDATE usuarios SET sancionado_hasta = ?
	WHERE id = ? AND (sancionado_hasta IS NULL OR sancionado_hasta < ?)`
	_, err = tx.ExecContext(ctx, qMark, s.EndDate, s.UserID, s.EndDate)
	return err
}

func (s *Store) Insert(ctx context.Context, sanction *Sanction) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		return InsertSanctionTx(ctx, tx, sanction)
	})
}

// RetireExpired flips every active sanction whose end date has passed
// to PAGADA.
func (s *Store) RetireExpired(ctx context.Context, today time.Time) (int64, error) {
	const q = `UPDATE sanciones SET estado = 'PAGADA' WHERE fecha_fin < ? AND estado = 'ACTIVA'`
	res, err := s.db.ExecContext(ctx, q, today)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes the sanction outright. Forgiving leaves no trace.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sanciones WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return apperr.ErrNotFound("sanction not found")
	}
	return nil
}

type Filter struct {
	UserID int64
	State  *State
	Limit  int
}

func (s *Store) List(ctx context.Context, f Filter) ([]Row, error) {
	sb := strings.Builder{}
	sb.WriteString(`
	SELECT s.id, s.usuario_id, s.motivo, s.fecha_inicio, s.fecha_fin, s.dias_sancion, s.estado,
	       u.dni, u.nombre
	FROM sanciones s
	JOIN usuarios u ON u.id = s.usuario_id
	WHERE 1=1`)
	args := []any{}
	if f.UserID > 0 {
		sb.WriteString(` AND s.usuario_id = ?`)
		args = append(args, f.UserID)
	}
	if f.State != nil {
		sb.WriteString(` AND s.estado = ?`)
		args = append(args, string(*f.State))
	}
	sb.WriteString(` ORDER BY s.id DESC`)
	if f.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var state string
		err := rows.Scan(&r.ID, &r.UserID, &r.Reason, &r.StartDate, &r.EndDate, &r.Days, &state,
			&r.UserDNI, &r.UserName)
		if err != nil {
			return nil, err
		}
		if r.State, err = ParseState(state); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountActive is used by the reporting side.
func (s *Store) CountActive(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sanciones WHERE estado = 'ACTIVA'`).Scan(&n)
	return n, err
}
