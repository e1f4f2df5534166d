package loans

import (
	"time"

	"biblioteca-backend/internal/borrowers"
	"biblioteca-backend/internal/catalog"
)

const (
	bookLoanDays        = 7
	magazineLoanDays    = 1
	teacherMagazineDays = 7
)

// ComputeExpectedReturn derives the due date from what is borrowed and
// who borrows it. Books go out for a week regardless of borrower.
// Magazines are overnight loans, except for teachers who keep them a
// full week.
func ComputeExpectedReturn(kind catalog.Kind, userType borrowers.UserType, loanDate time.Time) time.Time {
	days := bookLoanDays
	if kind == catalog.KindMagazine {
		days = magazineLoanDays
		if userType == borrowers.TypeTeacher {
			days = teacherMagazineDays
		}
	}
	return loanDate.AddDate(0, 0, days)
}
