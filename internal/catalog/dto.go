package catalog

import "database/sql"

type CreatePublicationRequest struct {
	ISBN  string `json:"isbn" binding:"required"`
	Title string `json:"title" binding:"required"`
	Kind  string `json:"kind" binding:"required"`

	Topics           *string `json:"topics,omitempty"`
	Publisher        *string `json:"publisher,omitempty"`
	PublisherAddress *string `json:"publisher_address,omitempty"`
	PublisherPhone   *string `json:"publisher_phone,omitempty"`
	Language         *string `json:"language,omitempty"`
	RelatedModules   *string `json:"related_modules,omitempty"`
	RelatedCycles    *string `json:"related_cycles,omitempty"`

	Author            *string `json:"author,omitempty"`
	AuthorNationality *string `json:"author_nationality,omitempty"`
	Edition           *string `json:"edition,omitempty"`
	PublicationDate   *string `json:"publication_date,omitempty"`

	Periodicity *string `json:"periodicity,omitempty"`
}

// UpdatePublicationRequest uses pointers so absent fields stay
// untouched. The ISBN is the natural key and cannot change.
type UpdatePublicationRequest struct {
	Title *string `json:"title,omitempty"`
	Kind  *string `json:"kind,omitempty"`

	Topics           *string `json:"topics,omitempty"`
	Publisher        *string `json:"publisher,omitempty"`
	PublisherAddress *string `json:"publisher_address,omitempty"`
	PublisherPhone   *string `json:"publisher_phone,omitempty"`
	Language         *string `json:"language,omitempty"`
	RelatedModules   *string `json:"related_modules,omitempty"`
	RelatedCycles    *string `json:"related_cycles,omitempty"`

	Author            *string `json:"author,omitempty"`
	AuthorNationality *string `json:"author_nationality,omitempty"`
	Edition           *string `json:"edition,omitempty"`
	PublicationDate   *string `json:"publication_date,omitempty"`

	Periodicity *string `json:"periodicity,omitempty"`
}

type PublicationResponse struct {
	ID    int64  `json:"id"`
	ISBN  string `json:"isbn"`
	Title string `json:"title"`
	Kind  string `json:"kind"`

	Topics           *string `json:"topics,omitempty"`
	Publisher        *string `json:"publisher,omitempty"`
	PublisherAddress *string `json:"publisher_address,omitempty"`
	PublisherPhone   *string `json:"publisher_phone,omitempty"`
	Language         string  `json:"language"`
	RelatedModules   *string `json:"related_modules,omitempty"`
	RelatedCycles    *string `json:"related_cycles,omitempty"`

	Author            *string `json:"author,omitempty"`
	AuthorNationality *string `json:"author_nationality,omitempty"`
	Edition           *string `json:"edition,omitempty"`
	PublicationDate   *string `json:"publication_date,omitempty"`

	Periodicity *string `json:"periodicity,omitempty"`
}

type CopyResponse struct {
	ID            int64  `json:"id"`
	PublicationID int64  `json:"publication_id"`
	Code          string `json:"code"`
	IssueNumber   *int64 `json:"issue_number,omitempty"`
	AcquiredOn    string `json:"acquired_on"`
	State         string `json:"state"`
}

type AvailabilityResponse struct {
	PublicationID int64 `json:"publication_id"`
	Available     int   `json:"available"`
	OnLoan        int   `json:"on_loan"`
}

type PublicationFilter struct {
	Query string
	Kind  *Kind
	Limit int
}

func buildPublicationResponse(p *Publication) PublicationResponse {
	return PublicationResponse{
		ID:                p.ID,
		ISBN:              p.ISBN,
		Title:             p.Title,
		Kind:              string(p.Kind),
		Topics:            strPtr(p.Topics),
		Publisher:         strPtr(p.Publisher),
		PublisherAddress:  strPtr(p.PublisherAddress),
		PublisherPhone:    strPtr(p.PublisherPhone),
		Language:          p.Language,
		RelatedModules:    strPtr(p.RelatedModules),
		RelatedCycles:     strPtr(p.RelatedCycles),
		Author:            strPtr(p.Author),
		AuthorNationality: strPtr(p.AuthorNationality),
		Edition:           strPtr(p.Edition),
		PublicationDate:   strPtr(p.PublicationDate),
		Periodicity:       strPtr(p.Periodicity),
	}
}

func buildCopyResponse(cp *Copy) CopyResponse {
	out := CopyResponse{
		ID:            cp.ID,
		PublicationID: cp.PublicationID,
		Code:          cp.Code,
		AcquiredOn:    cp.AcquiredOn.Format("2006-01-02"),
		State:         string(cp.State),
	}
	if cp.IssueNumber.Valid {
		v := cp.IssueNumber.Int64
		out.IssueNumber = &v
	}
	return out
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func nullStr(p *string) sql.NullString {
	if p == nil || *p == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
