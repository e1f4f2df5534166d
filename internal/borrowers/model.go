package borrowers

import (
	"database/sql"

	"biblioteca-backend/internal/platform/apperr"
)

// UserType drives loan terms and sanction policy. Stored as-is in
// usuarios.tipo.
type UserType string

const (
	TypeStudent   UserType = "ESTUDIANTE"
	TypeTeacher   UserType = "PROFESOR"
	TypeStaff     UserType = "PERSONAL"
	TypeLibrarian UserType = "CONSERJE"
)

// ParseUserType rejects anything outside the closed set. A bad stored
// value is a storage error, never a silent default.
func ParseUserType(s string) (UserType, error) {
	switch UserType(s) {
	case TypeStudent, TypeTeacher, TypeStaff, TypeLibrarian:
		return UserType(s), nil
	}
	return "", apperr.ErrInternal("unknown user type: " + s)
}

// Borrower is one usuarios row.
type Borrower struct {
	ID    int64
	DNI   string
	Name  string
	Type  UserType
	Email string

	// denormalized end date of the latest sanction, informational only
	SanctionedUntil sql.NullTime
}
