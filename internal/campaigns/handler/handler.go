package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"heyjarvis_backend/internal/campaigns/service"
	"heyjarvis_backend/internal/campaigns/transport"
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
	outreach := rg.Group("/outreach")
	outreach.GET("", h.ListOutreach)
	outreach.POST("", h.CreateOutreach)
	outreach.POST("/:id/complete", h.CompleteOutreach)

	marketing := rg.Group("/marketing")
	marketing.GET("", h.ListMarketing)
	marketing.POST("", h.CreateMarketing)
	marketing.POST("/:id/spend", h.RecordSpend)
}

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

// GET /api/v1/campaigns/outreach
func (h *Handler) ListOutreach(c *gin.Context) {
	campaigns, err := h.svc.ListOutreach(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, campaigns)
}

// POST /api/v1/campaigns/outreach
func (h *Handler) CreateOutreach(c *gin.Context) {
	var req transport.CreateOutreachCampaignRequest
	if !h.bind(c, &req) {
		return
	}
	campaign, err := h.svc.CreateOutreach(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, campaign)
}

// CompleteOutreach records results and dispatches campaign_completed.
// POST /api/v1/campaigns/outreach/:id/complete
func (h *Handler) CompleteOutreach(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.CompleteOutreachCampaignRequest
	if !h.bind(c, &req) {
		return
	}
	campaign, err := h.svc.CompleteOutreach(c.Request.Context(), id, req.Results)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, campaign)
}

// GET /api/v1/campaigns/marketing
func (h *Handler) ListMarketing(c *gin.Context) {
	campaigns, err := h.svc.ListMarketing(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, campaigns)
}

// POST /api/v1/campaigns/marketing
func (h *Handler) CreateMarketing(c *gin.Context) {
	var req transport.CreateMarketingCampaignRequest
	if !h.bind(c, &req) {
		return
	}
	campaign, err := h.svc.CreateMarketing(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, campaign)
}

// RecordSpend updates the spend and may raise a budget approval.
// POST /api/v1/campaigns/marketing/:id/spend
func (h *Handler) RecordSpend(c *gin.Context) {
	id, ok := httpkit.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.RecordSpendRequest
	if !h.bind(c, &req) {
		return
	}
	campaign, reached, err := h.svc.RecordSpend(c.Request.Context(), id, *req.Spent)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.RecordSpendResponse{Campaign: campaign, ThresholdReached: reached})
}
