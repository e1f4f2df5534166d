package catalog

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
	r.GET("/publications", h.List)
	r.POST("/publications", h.Create)
	r.GET("/publications/:id", h.Get)
	r.PUT("/publications/:id", h.Update)
	r.DELETE("/publications/:id", auth.RequireRole(auth.RoleLibrarian), h.Delete)
	r.GET("/publications/:id/copies", h.Copies)
	r.GET("/publications/:id/availability", h.Availability)
	r.POST("/catalog/backfill", auth.RequireRole(auth.RoleLibrarian), h.Backfill)
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
	var req CreatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.JSON(c, apperr.ErrInvalid("invalid request body: "+err.Error()))
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildPublicationResponse(p))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, buildPublicationResponse(p))
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

	pubs, err := h.svc.List(c.Request.Context(), c.Query("q"), c.Query("kind"), limit)
	if err != nil {
		apperr.JSON(c, err)
		return
	}

	out := make([]PublicationResponse, 0, len(pubs))
	for i := range pubs {
		out = append(out, buildPublicationResponse(&pubs[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.JSON(c, apperr.ErrInvalid("invalid request body: "+err.Error()))
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, buildPublicationResponse(p))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "publication deleted"})
}

func (h *Handler) Copies(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	copies, err := h.svc.Copies(c.Request.Context(), id)
	if err != nil {
		apperr.JSON(c, err)
		return
	}

	out := make([]CopyResponse, 0, len(copies))
	for i := range copies {
		out = append(out, buildCopyResponse(&copies[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Availability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	av, err := h.svc.Availability(c.Request.Context(), id)
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, av)
}

func (h *Handler) Backfill(c *gin.Context) {
	created, err := h.svc.Backfill(c.Request.Context())
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}
