package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/internal/leads/service"
	"heyjarvis_backend/internal/leads/transport"
	"heyjarvis_backend/platform/httpkit"
	"heyjarvis_backend/platform/validator"
)

// Handler handles HTTP requests for leads.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	paramID             = "id"
)

// New creates a new leads handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/stats", h.Stats)
	rg.POST("/import", h.Import)
	rg.POST("/score", h.Score)
	rg.GET("/score-distribution", h.ScoreDistribution)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/approve", h.setStatus(domain.LeadStatusApproved))
	rg.POST("/:id/reject", h.setStatus(domain.LeadStatusRejected))
	rg.POST("/:id/contact", h.setStatus(domain.LeadStatusContacted))
}

// bind decodes and validates a JSON body, writing the error response itself.
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

// List returns leads newest first.
// GET /api/v1/leads
func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	leads, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, leads)
}

// POST /api/v1/leads
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, lead)
}

// Import creates a batch of leads and starts scoring them.
// POST /api/v1/leads/import
func (h *Handler) Import(c *gin.Context) {
	var req transport.ImportLeadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	// Leads are validated one by one so a bad row does not reject the batch.
	result, err := h.svc.Import(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/leads/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, paramID)
	if !ok {
		return
	}
	lead, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// PATCH /api/v1/leads/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, paramID)
	if !ok {
		return
	}
	var req transport.UpdateLeadRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// DELETE /api/v1/leads/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, paramID)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) setStatus(status domain.LeadStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpkit.ParseIDParam(c, paramID)
		if !ok {
			return
		}
		lead, err := h.svc.SetStatus(c.Request.Context(), id, status)
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, lead)
	}
}

// Score runs the scoring subroutine on the given leads.
// POST /api/v1/leads/score
func (h *Handler) Score(c *gin.Context) {
	var req transport.ScoreLeadsRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.svc.Score(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GET /api/v1/leads/score-distribution
func (h *Handler) ScoreDistribution(c *gin.Context) {
	dist, err := h.svc.Distribution(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, dist)
}

// GET /api/v1/leads/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, stats)
}
