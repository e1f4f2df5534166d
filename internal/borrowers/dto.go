package borrowers

type CreateUserRequest struct {
	DNI   string `json:"dni" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Type  string `json:"type" binding:"required"`
	Email string `json:"email"`
}

// UpdateUserRequest uses pointers so absent fields stay untouched. The
// DNI is the natural key and cannot change.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Type  *string `json:"type,omitempty"`
	Email *string `json:"email,omitempty"`
}

type UserResponse struct {
	ID              int64   `json:"id"`
	DNI             string  `json:"dni"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Email           string  `json:"email"`
	SanctionedUntil *string `json:"sanctioned_until,omitempty"`
}

type UserFilter struct {
	Query string
	Type  *UserType
	Limit int
}

func buildUserResponse(b *Borrower) UserResponse {
	out := UserResponse{
		ID:    b.ID,
		DNI:   b.DNI,
		Name:  b.Name,
		Type:  string(b.Type),
		Email: b.Email,
	}
	if b.SanctionedUntil.Valid {
		v := b.SanctionedUntil.Time.Format("2006-01-02")
		out.SanctionedUntil = &v
	}
	return out
}
