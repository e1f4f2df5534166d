package catalog

import (
	"database/sql"
	"time"

	"biblioteca-backend/internal/platform/apperr"
)

// Kind tags a publication as a book or a magazine. Stored as-is in
// libros.tipo_publicacion.
type Kind string

const (
	KindBook     Kind = "LIBRO"
	KindMagazine Kind = "REVISTA"
)

// ParseKind rejects anything outside the closed set. A bad stored value
// is a storage error, never a silent default.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindBook, KindMagazine:
		return Kind(s), nil
	}
	return "", apperr.ErrInternal("unknown publication kind: " + s)
}

type CopyState string

const (
	CopyAvailable CopyState = "DISPONIBLE"
	CopyOnLoan    CopyState = "PRESTADO"
)

func ParseCopyState(s string) (CopyState, error) {
	switch CopyState(s) {
	case CopyAvailable, CopyOnLoan:
		return CopyState(s), nil
	}
	return "", apperr.ErrInternal("unknown copy state: " + s)
}

// Publication is one libros row. Book-only and magazine-only columns
// are nullable; only the set matching Kind is meaningful.
type Publication struct {
	ID    int64
	ISBN  string
	Title string
	Kind  Kind

	Topics           sql.NullString
	Publisher        sql.NullString
	PublisherAddress sql.NullString
	PublisherPhone   sql.NullString
	Language         string
	RelatedModules   sql.NullString
	RelatedCycles    sql.NullString

	// books only
	Author            sql.NullString
	AuthorNationality sql.NullString
	Edition           sql.NullString
	PublicationDate   sql.NullString

	// magazines only
	Periodicity sql.NullString
}

// Copy is one ejemplares row, a single circulation unit.
type Copy struct {
	ID            int64
	PublicationID int64
	Code          string
	IssueNumber   sql.NullInt64
	AcquiredOn    time.Time
	State         CopyState
}
