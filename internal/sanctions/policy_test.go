package sanctions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"biblioteca-backend/internal/borrowers"
	"biblioteca-backend/internal/catalog"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetweenIgnoresClockTime(t *testing.T) {
	a := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	b := time.Date(2026, 3, 13, 0, 1, 0, 0, time.UTC)
	require.Equal(t, 3, DaysBetween(a, b))
	require.Equal(t, -3, DaysBetween(b, a))
	require.Equal(t, 0, DaysBetween(a, a))
}

func TestEvaluateReturnOnTime(t *testing.T) {
	d := EvaluateReturn(catalog.KindBook, borrowers.TypeStudent, "Don Quijote",
		date(2026, 3, 10), date(2026, 3, 10))
	require.Equal(t, Decision{}, d)

	// early return is also a zero decision
	d = EvaluateReturn(catalog.KindBook, borrowers.TypeStudent, "Don Quijote",
		date(2026, 3, 10), date(2026, 3, 8))
	require.Equal(t, Decision{}, d)
}

func TestEvaluateReturnLateBookStudent(t *testing.T) {
	d := EvaluateReturn(catalog.KindBook, borrowers.TypeStudent, "Don Quijote",
		date(2026, 3, 10), date(2026, 3, 13))
	require.Equal(t, 3, d.DaysLate)
	require.True(t, d.Sanction)
	require.Equal(t, 6, d.Days)
	require.Equal(t, "Retraso de 3 día(s) en 'Don Quijote'", d.Reason)
}

func TestEvaluateReturnLateMagazineStudent(t *testing.T) {
	d := EvaluateReturn(catalog.KindMagazine, borrowers.TypeStudent, "Muy Interesante",
		date(2026, 3, 10), date(2026, 3, 11))
	require.Equal(t, 1, d.DaysLate)
	require.True(t, d.Sanction)
	require.Equal(t, 10, d.Days)
	require.Equal(t, "No devolvió revista 'Muy Interesante' en el plazo de 1 día", d.Reason)

	// flat penalty no matter how late
	d = EvaluateReturn(catalog.KindMagazine, borrowers.TypeStudent, "Muy Interesante",
		date(2026, 3, 10), date(2026, 4, 10))
	require.Equal(t, 10, d.Days)
}

func TestEvaluateReturnNonStudentsExempt(t *testing.T) {
	for _, typ := range []borrowers.UserType{borrowers.TypeTeacher, borrowers.TypeStaff, borrowers.TypeLibrarian} {
		d := EvaluateReturn(catalog.KindBook, typ, "Don Quijote",
			date(2026, 3, 10), date(2026, 3, 20))
		require.Equal(t, 10, d.DaysLate)
		require.False(t, d.Sanction)
		require.Zero(t, d.Days)
		require.Empty(t, d.Reason)
	}
}

func TestDecisionBuild(t *testing.T) {
	d := Decision{Sanction: true, Days: 6, Reason: "Retraso de 3 día(s) en 'Don Quijote'"}
	s := d.Build(5, time.Date(2026, 3, 13, 14, 30, 0, 0, time.UTC))

	require.Equal(t, int64(5), s.UserID)
	require.Equal(t, date(2026, 3, 13), s.StartDate)
	require.Equal(t, date(2026, 3, 19), s.EndDate)
	require.Equal(t, 6, s.Days)
	require.Equal(t, StateActive, s.State)
}
