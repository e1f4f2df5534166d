package loans

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"biblioteca-backend/internal/platform/apperr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/loans", h.List)
	r.POST("/loans", h.Create)
	r.GET("/loans/:id", h.Get)
	r.POST("/loans/:id/return", h.Return)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apperr.JSON(c, apperr.ErrInvalid("invalid id"))
		return 0, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.JSON(c, apperr.ErrInvalid("invalid request body: "+err.Error()))
		return
	}

	detail, err := h.svc.Grant(c.Request.Context(), req)
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildLoanResponse(detail))
}

func (h *Handler) Return(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ReturnLoanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.JSON(c, apperr.ErrInvalid("invalid request body: "+err.Error()))
			return
		}
	}

	receipt, err := h.svc.Return(c.Request.Context(), id, req)
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, buildLoanResponse(detail))
}

func (h *Handler) List(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			apperr.JSON(c, apperr.ErrInvalid("invalid limit"))
			return
		}
		limit = n
	}

	details, err := h.svc.List(c.Request.Context(), c.Query("q"), c.Query("state"), limit)
	if err != nil {
		apperr.JSON(c, err)
		return
	}

	out := make([]LoanResponse, 0, len(details))
	for i := range details {
		out = append(out, buildLoanResponse(&details[i]))
	}
	c.JSON(http.StatusOK, out)
}
