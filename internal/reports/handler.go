package reports

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"biblioteca-backend/internal/platform/apperr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/reports/dashboard", h.Dashboard)
	r.GET("/reports/top", h.TopBorrowed)
}

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) TopBorrowed(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			apperr.JSON(c, apperr.ErrInvalid("invalid limit"))
			return
		}
		limit = n
	}

	rows, err := h.svc.TopBorrowed(c.Request.Context(), limit)
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	if rows == nil {
		rows = []TopRow{}
	}
	c.JSON(http.StatusOK, rows)
}
