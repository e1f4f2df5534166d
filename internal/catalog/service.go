package catalog

import (
	"context"
	"log"
	"time"

	"biblioteca-backend/internal/platform/apperr"
	"biblioteca-backend/internal/platform/search"
)

// Repo abstracts the store so the service can be tested without MySQL.
type Repo interface {
	ExecCreatePublication(ctx context.Context, p *Publication, today time.Time) error
	GetPublication(ctx context.Context, id int64) (*Publication, error)
	ListPublications(ctx context.Context, f PublicationFilter) ([]Publication, error)
	UpdatePublication(ctx context.Context, id int64, in UpdatePublicationRequest, kind *Kind) (*Publication, error)
	ExecDeletePublication(ctx context.Context, id int64) error
	FindAvailableCopy(ctx context.Context, pubID int64) (*Copy, error)
	ListCopies(ctx context.Context, pubID int64) ([]Copy, error)
	CountCopies(ctx context.Context, pubID int64) (available, onLoan int, err error)
	BackfillMissingCopies(ctx context.Context, today time.Time) (int, error)
}

type Clock interface{ Now() time.Time }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Service struct {
	repo  Repo
	clock Clock
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo, clock: systemClock{}}
}

// parseRequestKind validates caller-supplied kind values. Unlike
// ParseKind it blames the request, not the storage.
func parseRequestKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindBook, KindMagazine:
		return Kind(s), nil
	}
	return "", apperr.ErrInvalid("kind must be LIBRO or REVISTA")
}

func validateKindFields(kind Kind, hasBookFields, hasPeriodicity bool) error {
	if kind == KindBook && hasPeriodicity {
		return apperr.ErrInvalid("periodicity applies to magazines only")
	}
	if kind == KindMagazine && hasBookFields {
		return apperr.ErrInvalid("author fields apply to books only")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req CreatePublicationRequest) (*Publication, error) {
	kind, err := parseRequestKind(req.Kind)
	if err != nil {
		return nil, err
	}

	hasBookFields := req.Author != nil || req.AuthorNationality != nil || req.Edition != nil || req.PublicationDate != nil
	if err := validateKindFields(kind, hasBookFields, req.Periodicity != nil); err != nil {
		return nil, err
	}

	p := &Publication{
		ISBN:              req.ISBN,
		Title:             req.Title,
		Kind:              kind,
		Topics:            nullStr(req.Topics),
		Publisher:         nullStr(req.Publisher),
		PublisherAddress:  nullStr(req.PublisherAddress),
		PublisherPhone:    nullStr(req.PublisherPhone),
		RelatedModules:    nullStr(req.RelatedModules),
		RelatedCycles:     nullStr(req.RelatedCycles),
		Author:            nullStr(req.Author),
		AuthorNationality: nullStr(req.AuthorNationality),
		Edition:           nullStr(req.Edition),
		PublicationDate:   nullStr(req.PublicationDate),
		Periodicity:       nullStr(req.Periodicity),
	}
	if req.Language != nil {
		p.Language = *req.Language
	}

	if err := s.repo.ExecCreatePublication(ctx, p, s.clock.Now()); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Publication, error) {
	return s.repo.GetPublication(ctx, id)
}

func (s *Service) List(ctx context.Context, query, kindStr string, limit int) ([]Publication, error) {
	f := PublicationFilter{Query: search.Fold(query), Limit: limit}
	if kindStr != "" {
		kind, err := parseRequestKind(kindStr)
		if err != nil {
			return nil, err
		}
		f.Kind = &kind
	}
	return s.repo.ListPublications(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdatePublicationRequest) (*Publication, error) {
	var kind *Kind
	if req.Kind != nil {
		k, err := parseRequestKind(*req.Kind)
		if err != nil {
			return nil, err
		}
		kind = &k
	}

	effective := kind
	if effective == nil {
		cur, err := s.repo.GetPublication(ctx, id)
		if err != nil {
			return nil, err
		}
		effective = &cur.Kind
	}
	hasBookFields := req.Author != nil || req.AuthorNationality != nil || req.Edition != nil || req.PublicationDate != nil
	if err := validateKindFields(*effective, hasBookFields, req.Periodicity != nil); err != nil {
		return nil, err
	}

	return s.repo.UpdatePublication(ctx, id, req, kind)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.ExecDeletePublication(ctx, id)
}

// FindAvailableCopy returns any free copy of the publication, nil when
// all are out. The lending side uses it as its stock pre-check.
func (s *Service) FindAvailableCopy(ctx context.Context, pubID int64) (*Copy, error) {
	return s.repo.FindAvailableCopy(ctx, pubID)
}

func (s *Service) Copies(ctx context.Context, pubID int64) ([]Copy, error) {
	if _, err := s.repo.GetPublication(ctx, pubID); err != nil {
		return nil, err
	}
	return s.repo.ListCopies(ctx, pubID)
}

func (s *Service) Availability(ctx context.Context, pubID int64) (*AvailabilityResponse, error) {
	if _, err := s.repo.GetPublication(ctx, pubID); err != nil {
		return nil, err
	}
	available, onLoan, err := s.repo.CountCopies(ctx, pubID)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResponse{PublicationID: pubID, Available: available, OnLoan: onLoan}, nil
}

// Backfill provisions default copies for publications without any. Run
// once at startup and exposed for manual repair.
func (s *Service) Backfill(ctx context.Context) (int, error) {
	created, err := s.repo.BackfillMissingCopies(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if created > 0 {
		log.Printf("[INFO] catalog backfill created %d copies", created)
	}
	return created, nil
}
