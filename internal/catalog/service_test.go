package catalog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"biblioteca-backend/internal/platform/apperr"
)

func TestProvisionPlan(t *testing.T) {
	book := provisionPlan(42, KindBook)
	require.Len(t, book, 3)
	require.Equal(t, "AUTO-42-1", book[0].Code)
	require.Equal(t, "AUTO-42-2", book[1].Code)
	require.Equal(t, "AUTO-42-3", book[2].Code)
	for _, seed := range book {
		require.False(t, seed.IssueNumber.Valid)
	}

	mag := provisionPlan(7, KindMagazine)
	require.Len(t, mag, 1)
	require.Equal(t, "REV-7-1", mag[0].Code)
	require.Equal(t, int64(1), mag[0].IssueNumber.Int64)
	require.True(t, mag[0].IssueNumber.Valid)
}

type fakeRepo struct {
	pubs    map[int64]*Publication
	free    map[int64]*Copy
	created *Publication
	deleted []int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{pubs: map[int64]*Publication{}, free: map[int64]*Copy{}}
}

func (f *fakeRepo) ExecCreatePublication(_ context.Context, p *Publication, _ time.Time) error {
	p.ID = int64(len(f.pubs) + 1)
	f.pubs[p.ID] = p
	f.created = p
	return nil
}

func (f *fakeRepo) GetPublication(_ context.Context, id int64) (*Publication, error) {
	p, ok := f.pubs[id]
	if !ok {
		return nil, apperr.ErrNotFound("publication not found")
	}
	return p, nil
}

func (f *fakeRepo) ListPublications(_ context.Context, _ PublicationFilter) ([]Publication, error) {
	var out []Publication
	for _, p := range f.pubs {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeRepo) UpdatePublication(_ context.Context, id int64, in UpdatePublicationRequest, kind *Kind) (*Publication, error) {
	p, ok := f.pubs[id]
	if !ok {
		return nil, apperr.ErrNotFound("publication not found")
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if kind != nil {
		p.Kind = *kind
	}
	return p, nil
}

func (f *fakeRepo) ExecDeletePublication(_ context.Context, id int64) error {
	if _, ok := f.pubs[id]; !ok {
		return apperr.ErrNotFound("publication not found")
	}
	delete(f.pubs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) FindAvailableCopy(_ context.Context, pubID int64) (*Copy, error) {
	return f.free[pubID], nil
}

func (f *fakeRepo) ListCopies(_ context.Context, _ int64) ([]Copy, error) { return nil, nil }

func (f *fakeRepo) CountCopies(_ context.Context, _ int64) (int, int, error) { return 2, 1, nil }

func (f *fakeRepo) BackfillMissingCopies(_ context.Context, _ time.Time) (int, error) {
	return 4, nil
}

func newTestService(repo Repo) *Service {
	return &Service{repo: repo, clock: systemClock{}}
}

func TestCreateValidatesKind(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreatePublicationRequest{
		ISBN: "978-1", Title: "X", Kind: "PERIODICO",
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestCreateRejectsMismatchedFields(t *testing.T) {
	svc := newTestService(newFakeRepo())
	periodicity := "mensual"
	author := "Cervantes"

	_, err := svc.Create(context.Background(), CreatePublicationRequest{
		ISBN: "978-1", Title: "X", Kind: "LIBRO", Periodicity: &periodicity,
	})
	require.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = svc.Create(context.Background(), CreatePublicationRequest{
		ISBN: "978-2", Title: "Y", Kind: "REVISTA", Author: &author,
	})
	require.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestCreateBook(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	author := "Cervantes"

	p, err := svc.Create(context.Background(), CreatePublicationRequest{
		ISBN: "978-84-376-0494-7", Title: "Don Quijote", Kind: "LIBRO", Author: &author,
	})
	require.NoError(t, err)
	require.Equal(t, KindBook, p.Kind)
	require.Equal(t, sql.NullString{String: "Cervantes", Valid: true}, repo.created.Author)
}

func TestListRejectsBadKindFilter(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.List(context.Background(), "", "COMIC", 0)
	require.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestAvailabilityRequiresPublication(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Availability(context.Background(), 99)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	repo.pubs[1] = &Publication{ID: 1, Kind: KindBook}
	av, err := svc.Availability(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 2, av.Available)
	require.Equal(t, 1, av.OnLoan)
}

func TestFindAvailableCopy(t *testing.T) {
	repo := newFakeRepo()
	repo.free[1] = &Copy{ID: 7, PublicationID: 1, Code: "AUTO-1-2", State: CopyAvailable}
	svc := newTestService(repo)

	cp, err := svc.FindAvailableCopy(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(7), cp.ID)

	cp, err = svc.FindAvailableCopy(context.Background(), 2)
	require.NoError(t, err)
	require.Nil(t, cp)
}

func TestUpdateKindValidation(t *testing.T) {
	repo := newFakeRepo()
	repo.pubs[1] = &Publication{ID: 1, Kind: KindBook}
	svc := newTestService(repo)
	periodicity := "semanal"

	// switching to magazine with a periodicity is fine
	p, err := svc.Update(context.Background(), 1, UpdatePublicationRequest{
		Kind: strp("REVISTA"), Periodicity: &periodicity,
	})
	require.NoError(t, err)
	require.Equal(t, KindMagazine, p.Kind)

	// a periodicity on a book is not
	repo.pubs[2] = &Publication{ID: 2, Kind: KindBook}
	_, err = svc.Update(context.Background(), 2, UpdatePublicationRequest{Periodicity: &periodicity})
	require.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func strp(s string) *string { return &s }
