package sanctions

import (
	"context"
	"log"
	"strings"
	"time"

	"biblioteca-backend/internal/borrowers"
	"biblioteca-backend/internal/platform/apperr"
)

// Repo abstracts the store so the service can be tested without MySQL.
type Repo interface {
	Insert(ctx context.Context, s *Sanction) error
	RetireExpired(ctx context.Context, today time.Time) (int64, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter) ([]Row, error)
	CountActive(ctx context.Context) (int, error)
}

// Directory resolves sanction targets without reaching into the
// borrowers store directly.
type Directory interface {
	Get(ctx context.Context, id int64) (*borrowers.Borrower, error)
}

type Clock interface{ Now() time.Time }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Service struct {
	repo  Repo
	dir   Directory
	clock Clock
}

func NewService(repo Repo, dir Directory) *Service {
	return &Service{repo: repo, dir: dir, clock: systemClock{}}
}

// Sweep retires sanctions whose end date has passed. Called at startup
// and before every listing so reads never show stale ACTIVA rows.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	retired, err := s.repo.RetireExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if retired > 0 {
		log.Printf("[INFO] retired %d expired sanctions", retired)
	}
	return retired, nil
}

func (s *Service) List(ctx context.Context, userID int64, stateStr string, limit int) ([]Row, error) {
	if _, err := s.Sweep(ctx); err != nil {
		return nil, err
	}

	f := Filter{UserID: userID, Limit: limit}
	if stateStr != "" {
		switch State(stateStr) {
		case StateActive, StatePaid:
			st := State(stateStr)
			f.State = &st
		default:
			return nil, apperr.ErrInvalid("state must be ACTIVA or PAGADA")
		}
	}
	return s.repo.List(ctx, f)
}

// IssueManual records a librarian-imposed sanction. Only students can
// be sanctioned, and the bar runs 1 to 365 days.
func (s *Service) IssueManual(ctx context.Context, req CreateSanctionRequest) (*Row, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, apperr.ErrInvalid("reason must not be blank")
	}
	if req.Days < 1 || req.Days > 365 {
		return nil, apperr.ErrInvalid("days must be between 1 and 365")
	}

	user, err := s.dir.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user.Type != borrowers.TypeStudent {
		return nil, apperr.ErrInvalid("only students can be sanctioned")
	}

	d := Decision{Sanction: true, Days: req.Days, Reason: strings.TrimSpace(req.Reason)}
	sanction := d.Build(req.UserID, s.clock.Now())
	if err := s.repo.Insert(ctx, sanction); err != nil {
		return nil, err
	}

	return &Row{Sanction: *sanction, UserDNI: user.DNI, UserName: user.Name}, nil
}

// Forgive removes the sanction entirely, leaving no history.
func (s *Service) Forgive(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) CountActive(ctx context.Context) (int, error) {
	if _, err := s.Sweep(ctx); err != nil {
		return 0, err
	}
	return s.repo.CountActive(ctx)
}
