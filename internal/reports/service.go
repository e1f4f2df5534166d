package reports

import (
	"context"
	"time"
)

const defaultTopLimit = 5

// Repo abstracts the store so the service can be tested without MySQL.
type Repo interface {
	Dashboard(ctx context.Context, today time.Time) (*Dashboard, error)
	TopBorrowed(ctx context.Context, limit int) ([]TopRow, error)
}

// Sweeper retires expired sanctions so the active count is accurate.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

type Clock interface{ Now() time.Time }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Service struct {
	repo  Repo
	sweep Sweeper
	clock Clock
}

func NewService(repo Repo, sweep Sweeper) *Service {
	return &Service{repo: repo, sweep: sweep, clock: systemClock{}}
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	if _, err := s.sweep.Sweep(ctx); err != nil {
		return nil, err
	}
	return s.repo.Dashboard(ctx, s.clock.Now())
}

func (s *Service) TopBorrowed(ctx context.Context, limit int) ([]TopRow, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	return s.repo.TopBorrowed(ctx, limit)
}
