package sanctions

import (
	"time"

	"biblioteca-backend/internal/platform/apperr"
)

type State string

const (
	StateActive State = "ACTIVA"
	StatePaid   State = "PAGADA"
)

func ParseState(s string) (State, error) {
	switch State(s) {
	case StateActive, StatePaid:
		return State(s), nil
	}
	return "", apperr.ErrInternal("unknown sanction state: " + s)
}

// Sanction is one sanciones row. EndDate is the last day the bar is in
// effect; the nightly/sweep pass retires rows whose EndDate is past.
type Sanction struct {
	ID        int64
	UserID    int64
	Reason    string
	StartDate time.Time
	EndDate   time.Time
	Days      int
	State     State
}

// Row is a sanction joined with its user for listings.
type Row struct {
	Sanction
	UserDNI  string
	UserName string
}
