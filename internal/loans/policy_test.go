package loans

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

func TestComputeExpectedReturn(t *testing.T) {
	loanDate := date(2026, 3, 10)

	tests := []struct {
		name string
		kind catalog.Kind
		typ  borrowers.UserType
		want time.Time
	}{
		{"book student", catalog.KindBook, borrowers.TypeStudent, date(2026, 3, 17)},
		{"book teacher", catalog.KindBook, borrowers.TypeTeacher, date(2026, 3, 17)},
		{"book staff", catalog.KindBook, borrowers.TypeStaff, date(2026, 3, 17)},
		{"magazine student", catalog.KindMagazine, borrowers.TypeStudent, date(2026, 3, 11)},
		{"magazine teacher", catalog.KindMagazine, borrowers.TypeTeacher, date(2026, 3, 17)},
		{"magazine staff", catalog.KindMagazine, borrowers.TypeStaff, date(2026, 3, 11)},
		{"magazine librarian", catalog.KindMagazine, borrowers.TypeLibrarian, date(2026, 3, 11)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ComputeExpectedReturn(tc.kind, tc.typ, loanDate))
		})
	}
}
