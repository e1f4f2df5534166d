package sanctions

type CreateSanctionRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Reason string `json:"reason" binding:"required"`
	Days   int    `json:"days" binding:"required"`
}

type SanctionResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	UserDNI   string `json:"user_dni"`
	UserName  string `json:"user_name"`
	Reason    string `json:"reason"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
	State     string `json:"state"`
}

func buildSanctionResponse(r *Row) SanctionResponse {
	return SanctionResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		UserDNI:   r.UserDNI,
		UserName:  r.UserName,
		Reason:    r.Reason,
		StartDate: r.StartDate.Format("2006-01-02"),
		EndDate:   r.EndDate.Format("2006-01-02"),
		Days:      r.Days,
		State:     string(r.State),
	}
}
