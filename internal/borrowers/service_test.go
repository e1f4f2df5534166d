package borrowers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"biblioteca-backend/internal/platform/apperr"
)

type fakeRepo struct {
	users     map[int64]*Borrower
	openLoans map[int64]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]*Borrower{}, openLoans: map[int64]int{}}
}

func (f *fakeRepo) CreateUser(_ context.Context, b *Borrower) error {
	for _, u := range f.users {
		if u.DNI == b.DNI {
			return apperr.ErrDuplicate("dni already registered")
		}
	}
	b.ID = int64(len(f.users) + 1)
	f.users[b.ID] = b
	return nil
}

func (f *fakeRepo) GetUser(_ context.Context, id int64) (*Borrower, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.ErrNotFound("user not found")
	}
	return u, nil
}

func (f *fakeRepo) GetUserByDNI(_ context.Context, dni string) (*Borrower, error) {
	for _, u := range f.users {
		if u.DNI == dni {
			return u, nil
		}
	}
	return nil, apperr.ErrNotFound("user not found")
}

func (f *fakeRepo) ListUsers(_ context.Context, _ UserFilter) ([]Borrower, error) {
	var out []Borrower
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeRepo) UpdateUser(_ context.Context, id int64, in UpdateUserRequest, typ *UserType) (*Borrower, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.ErrNotFound("user not found")
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if typ != nil {
		u.Type = *typ
	}
	return u, nil
}

func (f *fakeRepo) ExecDeleteUser(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return apperr.ErrNotFound("user not found")
	}
	if f.openLoans[id] > 0 {
		return apperr.ErrConflict("user has loans outstanding")
	}
	delete(f.users, id)
	return nil
}

func (f *fakeRepo) HasActiveSanction(_ context.Context, _ int64, _ time.Time) (bool, error) {
	return false, nil
}

func (f *fakeRepo) HasOutstandingMagazineLoan(_ context.Context, _ int64) (bool, error) {
	return false, nil
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		DNI: "11111111A", Name: "Ana", Type: "ALUMNO",
	})
	require.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestCreateDuplicateDNI(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		DNI: "11111111A", Name: "Ana", Type: "ESTUDIANTE",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateUserRequest{
		DNI: "11111111A", Name: "Otra Ana", Type: "PROFESOR",
	})
	require.Equal(t, apperr.CodeDuplicateKey, apperr.CodeOf(err))
}

func TestDeleteBlockedByOpenLoans(t *testing.T) {
	repo := newFakeRepo()
	repo.users[1] = &Borrower{ID: 1, DNI: "11111111A", Type: TypeStudent}
	repo.openLoans[1] = 1
	svc := NewService(repo)

	err := svc.Delete(context.Background(), 1)
	require.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	repo.openLoans[1] = 0
	require.NoError(t, svc.Delete(context.Background(), 1))
}

func TestUpdateTypeValidation(t *testing.T) {
	repo := newFakeRepo()
	repo.users[1] = &Borrower{ID: 1, DNI: "11111111A", Type: TypeStudent}
	svc := NewService(repo)

	bad := "BEDEL"
	_, err := svc.Update(context.Background(), 1, UpdateUserRequest{Type: &bad})
	require.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	good := "PERSONAL"
	u, err := svc.Update(context.Background(), 1, UpdateUserRequest{Type: &good})
	require.NoError(t, err)
	require.Equal(t, TypeStaff, u.Type)
}
