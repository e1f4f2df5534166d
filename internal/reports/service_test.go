package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	dash      Dashboard
	top       []TopRow
	lastLimit int
}

func (f *fakeRepo) Dashboard(_ context.Context, _ time.Time) (*Dashboard, error) {
	d := f.dash
	return &d, nil
}

func (f *fakeRepo) TopBorrowed(_ context.Context, limit int) ([]TopRow, error) {
	f.lastLimit = limit
	return f.top, nil
}

type fakeSweeper struct{ calls int }

func (f *fakeSweeper) Sweep(_ context.Context) (int64, error) {
	f.calls++
	return 2, nil
}

func TestDashboardSweepsFirst(t *testing.T) {
	repo := &fakeRepo{dash: Dashboard{Publications: 3, TotalLoans: 9, OpenLoans: 2, ActiveSanctions: 1}}
	sweep := &fakeSweeper{}
	svc := &Service{repo: repo, sweep: sweep, clock: systemClock{}}

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sweep.calls)
	require.Equal(t, 3, d.Publications)
	require.Equal(t, 9, d.TotalLoans)
	require.Equal(t, 2, d.OpenLoans)
}

func TestTopBorrowedDefaultLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := &Service{repo: repo, sweep: &fakeSweeper{}, clock: systemClock{}}

	_, err := svc.TopBorrowed(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, defaultTopLimit, repo.lastLimit)

	_, err = svc.TopBorrowed(context.Background(), 12)
	require.NoError(t, err)
	require.Equal(t, 12, repo.lastLimit)
}
