package sanctions

import (
	"fmt"
	"time"

	"biblioteca-backend/internal/borrowers"
	"biblioteca-backend/internal/catalog"
)

// Decision is the outcome of evaluating a return. A zero Decision means
// the return was on time or the borrower is exempt.
type Decision struct {
	DaysLate int
	Sanction bool
	Days     int
	Reason   string
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from a to b, ignoring clock
// time. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
}

// EvaluateReturn applies the lateness policy. Only students are
// sanctioned; for everyone else a late return is recorded but carries
// no penalty. Books cost two sanction days per day late, magazines a
// flat ten days.
func EvaluateReturn(kind catalog.Kind, userType borrowers.UserType, title string, expected, actual time.Time) Decision {
	daysLate := DaysBetween(expected, actual)
	if daysLate <= 0 {
		return Decision{}
	}

	d := Decision{DaysLate: daysLate}
	if userType != borrowers.TypeStudent {
		return d
	}

	d.Sanction = true
	if kind == catalog.KindMagazine {
		d.Days = 10
		d.Reason = fmt.Sprintf("No devolvió revista '%s' en el plazo de 1 día", title)
	} else {
		d.Days = 2 * daysLate
		d.Reason = fmt.Sprintf("Retraso de %d día(s) en '%s'", daysLate, title)
	}
	return d
}

// Build turns a sanctioning decision into the row to persist. The bar
// runs from today through today+Days.
func (d Decision) Build(userID int64, today time.Time) *Sanction {
	start := dateOnly(today)
	return &Sanction{
		UserID:    userID,
		Reason:    d.Reason,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, d.Days),
		Days:      d.Days,
		State:     StateActive,
	}
}
