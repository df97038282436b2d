package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"heyjarvis_backend/internal/approvals/service"
	"heyjarvis_backend/internal/approvals/transport"
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
	rg.GET("/pending", h.Pending)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/reject", h.Reject)
}

// GET /api/v1/approvals
func (h *Handler) List(c *gin.Context) {
	var req transport.ListApprovalsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	approvals, err := h.svc.List(c.Request.Context(), req.Status, req.Limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, approvals)
}

// GET /api/v1/approvals/pending
func (h *Handler) Pending(c *gin.Context) {
	approvals, err := h.svc.Pending(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, approvals)
}

// GET /api/v1/approvals/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}
	approval, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, approval)
}

// Approve resolves a pending approval and continues its workflow chain.
// POST /api/v1/approvals/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	approval, err := h.svc.Approve(c.Request.Context(), id, req.ApprovedBy)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, approval)
}

// POST /api/v1/approvals/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	approval, err := h.svc.Reject(c.Request.Context(), id, req.RejectedBy, req.Reason)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, approval)
}
