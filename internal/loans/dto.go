package loans

const (
	loanStateOpen     = "ACTIVO"
	loanStateReturned = "DEVUELTO"
)

type CreateLoanRequest struct {
	UserID        int64 `json:"user_id" binding:"required"`
	PublicationID int64 `json:"publication_id" binding:"required"`

	// optional overrides, "2006-01-02"; default today / policy due date
	LoanDate       string `json:"loan_date,omitempty"`
	ExpectedReturn string `json:"expected_return,omitempty"`
}

type ReturnLoanRequest struct {
	ReturnDate string `json:"return_date,omitempty"`
}

type LoanResponse struct {
	ID             int64   `json:"id"`
	ULID           string  `json:"ulid"`
	UserID         int64   `json:"user_id"`
	UserDNI        string  `json:"user_dni"`
	UserName       string  `json:"user_name"`
	CopyID         int64   `json:"copy_id"`
	CopyCode       string  `json:"copy_code"`
	PublicationID  int64   `json:"publication_id"`
	Title          string  `json:"title"`
	Kind           string  `json:"kind"`
	LoanDate       string  `json:"loan_date"`
	ExpectedReturn string  `json:"expected_return"`
	ActualReturn   *string `json:"actual_return,omitempty"`
	State          string  `json:"state"`
}

// ReturnReceipt tells the librarian what the return triggered.
type ReturnReceipt struct {
	Loan           LoanResponse `json:"loan"`
	DaysLate       int          `json:"days_late"`
	Sanctioned     bool         `json:"sanctioned"`
	SanctionDays   int          `json:"sanction_days,omitempty"`
	SanctionEndsOn *string      `json:"sanction_ends_on,omitempty"`
	Message        string       `json:"message"`
}

type Filter struct {
	Query string
	State string
	Limit int
}

func buildLoanResponse(d *Detail) LoanResponse {
	out := LoanResponse{
		ID:             d.ID,
		ULID:           d.ULID,
		UserID:         d.UserID,
		UserDNI:        d.UserDNI,
		UserName:       d.UserName,
		CopyID:         d.CopyID,
		CopyCode:       d.CopyCode,
		PublicationID:  d.PublicationID,
		Title:          d.Title,
		Kind:           string(d.Kind),
		LoanDate:       d.LoanDate.Format("2006-01-02"),
		ExpectedReturn: d.ExpectedReturn.Format("2006-01-02"),
		State:          loanStateOpen,
	}
	if d.ActualReturn.Valid {
		v := d.ActualReturn.Time.Format("2006-01-02")
		out.ActualReturn = &v
		out.State = loanStateReturned
	}
	return out
}
