// Package auth handles librarian login and the JWT middleware guarding
// the API. Credentials live on the usuarios table; only CONSERJE rows
// may sign in.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const RoleLibrarian = "CONSERJE"

var (
	ErrAuthFailed = errors.New("authentication failed")
	ErrNotFound   = errors.New("not found")
)

type Service struct {
	store  *Store
	secret []byte
}

func NewService(conn *sql.DB, secret []byte) *Service {
	return &Service{store: NewStore(conn), secret: secret}
}

func (s *Service) Secret() []byte { return s.secret }

// Login verifies dni/password against the stored bcrypt hash and signs
// a 24h HS256 token with the user's role.
func (s *Service) Login(ctx context.Context, dni, password string) (string, error) {
	acct, err := s.store.GetByDNI(ctx, dni)
	if err != nil {
		return "", err
	}
	if acct == nil || acct.Role != RoleLibrarian || !acct.PasswordHash.Valid {
		return "", ErrAuthFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash.String), []byte(password)); err != nil {
		return "", ErrAuthFailed
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  acct.DNI,
		"role": acct.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(s.secret)
}

func (s *Service) ChangePassword(ctx context.Context, dni, oldPassword, newPassword string) error {
	acct, err := s.store.GetByDNI(ctx, dni)
	if err != nil {
		return err
	}
	if acct == nil || !acct.PasswordHash.Valid {
		return ErrAuthFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash.String), []byte(oldPassword)); err != nil {
		return ErrAuthFailed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.UpdatePasswordHash(ctx, acct.ID, string(hash))
}

// EnsureAdmin creates the bootstrap librarian account when it does not
// exist yet. Called once at startup.
func (s *Service) EnsureAdmin(ctx context.Context, dni, name, email, password string) error {
	acct, err := s.store.GetByDNI(ctx, dni)
	if err != nil {
		return err
	}
	if acct != nil {
		return nil
	}
	if password == "" {
		log.Printf("[WARN] admin account %q missing and no admin password configured", dni)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.store.InsertLibrarian(ctx, dni, name, email, string(hash)); err != nil {
		return err
	}
	log.Printf("[INFO] created bootstrap librarian account %q", dni)
	return nil
}
