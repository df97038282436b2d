package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"heyjarvis_backend/internal/sites/service"
	"heyjarvis_backend/internal/sites/transport"
	"heyjarvis_backend/platform/httpkit"
	"heyjarvis_backend/platform/validator"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/content-url", h.ContentURL)
}

// GET /api/v1/sites
func (h *Handler) List(c *gin.Context) {
	sites, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, sites)
}

// Create generates a site and starts its A/B test setup.
// POST /api/v1/sites
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	site, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, site)
}

// GET /api/v1/sites/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}
	site, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, site)
}

// GET /api/v1/sites/:id/content-url
func (h *Handler) ContentURL(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}
	url, err := h.svc.ContentURL(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, url)
}
