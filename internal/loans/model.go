package loans

import (
	"database/sql"
	"time"

	"biblioteca-backend/internal/borrowers"
	"biblioteca-backend/internal/catalog"
)

// Loan is one prestamos row.
type Loan struct {
	ID             int64
	ULID           string
	UserID         int64
	CopyID         int64
	LoanDate       time.Time
	ExpectedReturn time.Time
	ActualReturn   sql.NullTime
}

// Detail is a loan joined with its borrower, copy and publication.
type Detail struct {
	Loan
	UserDNI       string
	UserName      string
	UserType      borrowers.UserType
	CopyCode      string
	PublicationID int64
	Title         string
	Kind          catalog.Kind
}
