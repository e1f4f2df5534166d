package borrowers

import (
	"context"
	"time"

	"biblioteca-backend/internal/platform/apperr"
	"biblioteca-backend/internal/platform/search"
)

// Repo abstracts the store so the service can be tested without MySQL.
type Repo interface {
	CreateUser(ctx context.Context, b *Borrower) error
	GetUser(ctx context.Context, id int64) (*Borrower, error)
	GetUserByDNI(ctx context.Context, dni string) (*Borrower, error)
	ListUsers(ctx context.Context, f UserFilter) ([]Borrower, error)
	UpdateUser(ctx context.Context, id int64, in UpdateUserRequest, typ *UserType) (*Borrower, error)
	ExecDeleteUser(ctx context.Context, id int64) error
	HasActiveSanction(ctx context.Context, userID int64, today time.Time) (bool, error)
	HasOutstandingMagazineLoan(ctx context.Context, userID int64) (bool, error)
}

type Service struct{ repo Repo }

func NewService(repo Repo) *Service { return &Service{repo: repo} }

func parseRequestType(s string) (UserType, error) {
	switch UserType(s) {
	case TypeStudent, TypeTeacher, TypeStaff, TypeLibrarian:
		return UserType(s), nil
	}
	return "", apperr.ErrInvalid("type must be ESTUDIANTE, PROFESOR, PERSONAL or CONSERJE")
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*Borrower, error) {
	typ, err := parseRequestType(req.Type)
	if err != nil {
		return nil, err
	}

	b := &Borrower{DNI: req.DNI, Name: req.Name, Type: typ, Email: req.Email}
	if err := s.repo.CreateUser(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Borrower, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) GetByDNI(ctx context.Context, dni string) (*Borrower, error) {
	return s.repo.GetUserByDNI(ctx, dni)
}

func (s *Service) List(ctx context.Context, query, typeStr string, limit int) ([]Borrower, error) {
	f := UserFilter{Query: search.Fold(query), Limit: limit}
	if typeStr != "" {
		typ, err := parseRequestType(typeStr)
		if err != nil {
			return nil, err
		}
		f.Type = &typ
	}
	return s.repo.ListUsers(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*Borrower, error) {
	var typ *UserType
	if req.Type != nil {
		t, err := parseRequestType(*req.Type)
		if err != nil {
			return nil, err
		}
		typ = &t
	}
	return s.repo.UpdateUser(ctx, id, req, typ)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.ExecDeleteUser(ctx, id)
}

// IsSanctioned and HoldsMagazine expose the loan-time checks to the
// lending side without giving it raw store access.

func (s *Service) IsSanctioned(ctx context.Context, userID int64, today time.Time) (bool, error) {
	return s.repo.HasActiveSanction(ctx, userID, today)
}

func (s *Service) HoldsMagazine(ctx context.Context, userID int64) (bool, error) {
	return s.repo.HasOutstandingMagazineLoan(ctx, userID)
}
