package sanctions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"biblioteca-backend/internal/borrowers"
	"biblioteca-backend/internal/platform/apperr"
)

type fakeRepo struct {
	rows    map[int64]*Sanction
	nextID  int64
	swept   int
	deleted []int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[int64]*Sanction{}, nextID: 1}
}

func (f *fakeRepo) Insert(_ context.Context, s *Sanction) error {
	s.ID = f.nextID
	f.nextID++
	f.rows[s.ID] = s
	return nil
}

func (f *fakeRepo) RetireExpired(_ context.Context, today time.Time) (int64, error) {
	f.swept++
	var n int64
	for _, s := range f.rows {
		if s.State == StateActive && s.EndDate.Before(today) {
			s.State = StatePaid
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperr.ErrNotFound("sanction not found")
	}
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ Filter) ([]Row, error) {
	var out []Row
	for _, s := range f.rows {
		out = append(out, Row{Sanction: *s})
	}
	return out, nil
}

func (f *fakeRepo) CountActive(_ context.Context) (int, error) {
	n := 0
	for _, s := range f.rows {
		if s.State == StateActive {
			n++
		}
	}
	return n, nil
}

type fakeDirectory struct{ users map[int64]*borrowers.Borrower }

func (f *fakeDirectory) Get(_ context.Context, id int64) (*borrowers.Borrower, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.ErrNotFound("user not found")
	}
	return u, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestService(repo Repo, dir Directory, now time.Time) *Service {
	return &Service{repo: repo, dir: dir, clock: fixedClock{t: now}}
}

func TestIssueManualValidation(t *testing.T) {
	dir := &fakeDirectory{users: map[int64]*borrowers.Borrower{
		1: {ID: 1, DNI: "11111111A", Name: "Ana", Type: borrowers.TypeStudent},
		2: {ID: 2, DNI: "22222222B", Name: "Benito", Type: borrowers.TypeTeacher},
	}}
	svc := newTestService(newFakeRepo(), dir, date(2026, 3, 13))

	_, err := svc.IssueManual(context.Background(), CreateSanctionRequest{UserID: 1, Reason: "   ", Days: 5})
	require.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = svc.IssueManual(context.Background(), CreateSanctionRequest{UserID: 1, Reason: "x", Days: 0})
	require.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = svc.IssueManual(context.Background(), CreateSanctionRequest{UserID: 1, Reason: "x", Days: 366})
	require.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = svc.IssueManual(context.Background(), CreateSanctionRequest{UserID: 99, Reason: "x", Days: 5})
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	_, err = svc.IssueManual(context.Background(), CreateSanctionRequest{UserID: 2, Reason: "x", Days: 5})
	require.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestIssueManualCreatesActiveSanction(t *testing.T) {
	repo := newFakeRepo()
	dir := &fakeDirectory{users: map[int64]*borrowers.Borrower{
		1: {ID: 1, DNI: "11111111A", Name: "Ana", Type: borrowers.TypeStudent},
	}}
	svc := newTestService(repo, dir, date(2026, 3, 13))

	row, err := svc.IssueManual(context.Background(), CreateSanctionRequest{
		UserID: 1, Reason: "Comportamiento inadecuado", Days: 7,
	})
	require.NoError(t, err)
	require.Equal(t, StateActive, row.State)
	require.Equal(t, date(2026, 3, 13), row.StartDate)
	require.Equal(t, date(2026, 3, 20), row.EndDate)
	require.Equal(t, "11111111A", row.UserDNI)
	require.Len(t, repo.rows, 1)
}

func TestListSweepsFirst(t *testing.T) {
	repo := newFakeRepo()
	repo.rows[1] = &Sanction{ID: 1, UserID: 1, State: StateActive, EndDate: date(2026, 3, 1)}
	repo.rows[2] = &Sanction{ID: 2, UserID: 1, State: StateActive, EndDate: date(2026, 4, 1)}
	repo.nextID = 3
	svc := newTestService(repo, &fakeDirectory{}, date(2026, 3, 13))

	_, err := svc.List(context.Background(), 0, "", 0)
	require.NoError(t, err)
	require.Equal(t, 1, repo.swept)
	require.Equal(t, StatePaid, repo.rows[1].State)
	require.Equal(t, StateActive, repo.rows[2].State)

	_, err = svc.List(context.Background(), 0, "CADUCADA", 0)
	require.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestForgiveDeletesOutright(t *testing.T) {
	repo := newFakeRepo()
	repo.rows[1] = &Sanction{ID: 1, UserID: 1, State: StateActive}
	svc := newTestService(repo, &fakeDirectory{}, date(2026, 3, 13))

	require.NoError(t, svc.Forgive(context.Background(), 1))
	require.Empty(t, repo.rows)

	err := svc.Forgive(context.Background(), 1)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
