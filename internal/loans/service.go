package loans

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"biblioteca-backend/internal/borrowers"
	"biblioteca-backend/internal/catalog"
	"biblioteca-backend/internal/platform/apperr"
	"biblioteca-backend/internal/platform/search"
	"biblioteca-backend/internal/sanctions"
)

// Repo abstracts the store so the service can be tested without MySQL.
type Repo interface {
	GetPublicationMeta(ctx context.Context, pubID int64) (catalog.Kind, string, error)
	ExecGrantLoan(ctx context.Context, pubID int64, loan *Loan) error
	GetLoanDetail(ctx context.Context, id int64) (*Detail, error)
	ExecReturnLoan(ctx context.Context, loanID, copyID int64, returnDate time.Time, sanction *sanctions.Sanction) error
	ListLoans(ctx context.Context, f Filter) ([]Detail, error)
}

// Catalog answers the stock pre-check. The authoritative pick happens
// again under FOR UPDATE inside the grant transaction.
type Catalog interface {
	FindAvailableCopy(ctx context.Context, pubID int64) (*catalog.Copy, error)
}

// Directory answers the borrower-side questions a grant asks.
type Directory interface {
	Get(ctx context.Context, id int64) (*borrowers.Borrower, error)
	IsSanctioned(ctx context.Context, userID int64, today time.Time) (bool, error)
	HoldsMagazine(ctx context.Context, userID int64) (bool, error)
}

// Sweeper retires expired sanctions so the sanction check never trips
// on a stale row.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

type Clock interface{ Now() time.Time }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type IDGen interface{ NewID() string }

type ulidGen struct{}

func (ulidGen) NewID() string { return ulid.Make().String() }

type Service struct {
	repo  Repo
	dir   Directory
	cat   Catalog
	sweep Sweeper
	clock Clock
	id    IDGen
}

func NewService(repo Repo, dir Directory, cat Catalog, sweep Sweeper) *Service {
	return &Service{repo: repo, dir: dir, cat: cat, sweep: sweep, clock: systemClock{}, id: ulidGen{}}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperr.ErrInvalid("invalid date, want YYYY-MM-DD: " + s)
	}
	return t, nil
}

func today(clock Clock) time.Time {
	y, m, d := clock.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Grant lends a copy of the publication to the user. Checks run in a
// fixed order so the caller always learns the most fundamental problem
// first: unknown user or publication, sanction, magazine limit, stock,
// dates.
func (s *Service) Grant(ctx context.Context, req CreateLoanRequest) (*Detail, error) {
	user, err := s.dir.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	kind, title, err := s.repo.GetPublicationMeta(ctx, req.PublicationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.sweep.Sweep(ctx); err != nil {
		return nil, err
	}
	sanctioned, err := s.dir.IsSanctioned(ctx, user.ID, today(s.clock))
	if err != nil {
		return nil, err
	}
	if sanctioned {
		return nil, apperr.ErrUserSanctioned(fmt.Sprintf("user %s is sanctioned", user.DNI))
	}

	if kind == catalog.KindMagazine && user.Type != borrowers.TypeTeacher {
		holds, err := s.dir.HoldsMagazine(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if holds {
			return nil, apperr.ErrMagazineLimit("user already holds a magazine")
		}
	}

	free, err := s.cat.FindAvailableCopy(ctx, req.PublicationID)
	if err != nil {
		return nil, err
	}
	if free == nil {
		return nil, apperr.ErrOutOfStock(fmt.Sprintf("no copies of '%s' available", title))
	}

	loanDate := today(s.clock)
	if req.LoanDate != "" {
		if loanDate, err = parseDate(req.LoanDate); err != nil {
			return nil, err
		}
	}
	expected := ComputeExpectedReturn(kind, user.Type, loanDate)
	if req.ExpectedReturn != "" {
		if expected, err = parseDate(req.ExpectedReturn); err != nil {
			return nil, err
		}
	}
	if expected.Before(loanDate) {
		return nil, apperr.ErrInvalidDateRange("expected return precedes the loan date")
	}

	loan := &Loan{
		ULID:           s.id.NewID(),
		UserID:         user.ID,
		LoanDate:       loanDate,
		ExpectedReturn: expected,
	}
	if err := s.repo.ExecGrantLoan(ctx, req.PublicationID, loan); err != nil {
		return nil, err
	}
	return s.repo.GetLoanDetail(ctx, loan.ID)
}

// Return closes the loan, frees the copy and applies the lateness
// policy. The sanction, if any, commits atomically with the return.
func (s *Service) Return(ctx context.Context, loanID int64, req ReturnLoanRequest) (*ReturnReceipt, error) {
	detail, err := s.repo.GetLoanDetail(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if detail.ActualReturn.Valid {
		return nil, apperr.ErrAlreadyReturned("loan already returned")
	}

	returnDate := today(s.clock)
	if req.ReturnDate != "" {
		if returnDate, err = parseDate(req.ReturnDate); err != nil {
			return nil, err
		}
	}
	if returnDate.Before(detail.LoanDate) {
		return nil, apperr.ErrInvalidDateRange("return date precedes the loan date")
	}

	decision := sanctions.EvaluateReturn(detail.Kind, detail.UserType, detail.Title,
		detail.ExpectedReturn, returnDate)
	var sanction *sanctions.Sanction
	if decision.Sanction {
		sanction = decision.Build(detail.UserID, returnDate)
	}

	if err := s.repo.ExecReturnLoan(ctx, loanID, detail.CopyID, returnDate, sanction); err != nil {
		return nil, err
	}

	detail.ActualReturn = sql.NullTime{Time: returnDate, Valid: true}
	receipt := &ReturnReceipt{
		Loan:       buildLoanResponse(detail),
		DaysLate:   decision.DaysLate,
		Sanctioned: decision.Sanction,
		Message:    "return recorded",
	}
	switch {
	case decision.Sanction:
		receipt.SanctionDays = decision.Days
		ends := sanction.EndDate.Format("2006-01-02")
		receipt.SanctionEndsOn = &ends
		receipt.Message = fmt.Sprintf("return recorded %d day(s) late, sanction until %s", decision.DaysLate, ends)
	case decision.DaysLate > 0:
		receipt.Message = fmt.Sprintf("return recorded %d day(s) late", decision.DaysLate)
	}
	return receipt, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	return s.repo.GetLoanDetail(ctx, id)
}

func (s *Service) List(ctx context.Context, query, state string, limit int) ([]Detail, error) {
	switch state {
	case "", loanStateOpen, loanStateReturned:
	default:
		return nil, apperr.ErrInvalid("state must be ACTIVO or DEVUELTO")
	}
	return s.repo.ListLoans(ctx, Filter{Query: search.Fold(query), State: state, Limit: limit})
}
