package sanctions

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"biblioteca-backend/internal/platform/apperr"
	"biblioteca-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/sanctions", h.List)
	r.POST("/sanctions", auth.RequireRole(auth.RoleLibrarian), h.Create)
	r.DELETE("/sanctions/:id", auth.RequireRole(auth.RoleLibrarian), h.Forgive)
}

func (h *Handler) List(c *gin.Context) {
	var userID int64
	if v := c.Query("user_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			apperr.JSON(c, apperr.ErrInvalid("invalid user_id"))
			return
		}
		userID = n
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			apperr.JSON(c, apperr.ErrInvalid("invalid limit"))
			return
		}
		limit = n
	}

	rows, err := h.svc.List(c.Request.Context(), userID, c.Query("state"), limit)
	if err != nil {
		apperr.JSON(c, err)
		return
	}

	out := make([]SanctionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, buildSanctionResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateSanctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.JSON(c, apperr.ErrInvalid("invalid request body: "+err.Error()))
		return
	}

	row, err := h.svc.IssueManual(c.Request.Context(), req)
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildSanctionResponse(row))
}

func (h *Handler) Forgive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apperr.JSON(c, apperr.ErrInvalid("invalid id"))
		return
	}

	if err := h.svc.Forgive(c.Request.Context(), id); err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sanction removed"})
}
