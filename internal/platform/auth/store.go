package auth

import (
	"context"
	"database/sql"

	"biblioteca-backend/internal/platform/apperr"
)

// Account is the credential slice of a usuarios row. Only librarians
// (tipo CONSERJE) carry a password hash.
type Account struct {
	ID           int64
	DNI          string
	Name         string
	Role         string
	PasswordHash sql.NullString
}

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

func (s *Store) GetByDNI(ctx context.Context, dni string) (*Account, error) {
	const q = `SELECT id, dni, nombre, tipo, password_hash FROM usuarios WHERE dni = ?`
	var a Account
	if err := s.db.QueryRowContext(ctx, q, dni).Scan(&a.ID, &a.DNI, &a.Name, &a.Role, &a.PasswordHash); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	const q = `UPDATE usuarios SET password_hash = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, hash, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff != 1 {
		return apperr.ErrNotFound("account not found")
	}
	return nil
}

func (s *Store) InsertLibrarian(ctx context.Context, dni, name, email, hash string) error {
	const q = `
	INSERT INTO usuarios (dni, nombre, tipo, email, password_hash)
	VALUES (?, ?, 'CONSERJE', ?, ?)`
	_, err := s.db.ExecContext(ctx, q, dni, name, email, hash)
	if err != nil {
		return apperr.FromMySQL(err, "dni already registered")
	}
	return nil
}
