package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"heyjarvis_backend/internal/workflows/service"
	"heyjarvis_backend/internal/workflows/transport"
	"heyjarvis_backend/platform/httpkit"
	"heyjarvis_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
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
	rg.GET("/active", h.Active)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id", h.Update)
	rg.POST("/:id/cancel", h.Cancel)
}

// GET /api/v1/workflows
func (h *Handler) List(c *gin.Context) {
	var req transport.ListWorkflowsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	workflows, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, workflows)
}

// GET /api/v1/workflows/active
func (h *Handler) Active(c *gin.Context) {
	workflows, err := h.svc.Active(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, workflows)
}

// GET /api/v1/workflows/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}
	wf, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, wf)
}

// POST /api/v1/workflows
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	wf, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, wf)
}

// PATCH /api/v1/workflows/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	wf, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, wf)
}

// Cancel stops a scheduled completion. The workflow ends as failed.
// POST /api/v1/workflows/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}
	wf, err := h.svc.Cancel(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, wf)
}
