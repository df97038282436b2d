// Package generation exposes the LLM generators as utility endpoints for the
// dashboard.
package generation

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"heyjarvis_backend/internal/ai"
	apphttp "heyjarvis_backend/internal/http"
	"heyjarvis_backend/internal/scoring"
	"heyjarvis_backend/platform/apperr"
	"heyjarvis_backend/platform/httpkit"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/sanitize"
	"heyjarvis_backend/platform/validator"
)

const fallbackReason = "Generic outreach due to AI parsing error"

type OutreachWriter interface {
	GenerateMessage(ctx context.Context, lead scoring.LeadFacts) (ai.OutreachMessage, error)
}

type SiteWriter interface {
	GenerateSiteContent(ctx context.Context, brief ai.SiteBrief) (ai.SiteContent, error)
}

type InsightsWriter interface {
	GenerateInsights(ctx context.Context, competitors []map[string]any) (ai.MarketingInsights, error)
}

// Generators holds the LLM-backed writers. A nil Insights disables the
// insights endpoint.
type Generators struct {
	Outreach OutreachWriter
	Site     SiteWriter
	Insights InsightsWriter
}

type generateOutreachRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Company        string `json:"company" validate:"max=200"`
	Title          string `json:"title" validate:"max=200"`
	RecentActivity string `json:"recentActivity" validate:"max=2000"`
}

type generateSiteContentRequest struct {
	Industry       string   `json:"industry" validate:"required,max=100"`
	TargetAudience string   `json:"targetAudience" validate:"required,max=500"`
	Goals          []string `json:"goals" validate:"omitempty,max=20,dive,max=200"`
}

type marketingInsightsRequest struct {
	Competitors []map[string]any `json:"competitors" validate:"max=50"`
}

type Module struct {
	gens Generators
	val  *validator.Validator
	log  *logger.Logger
}

func NewModule(gens Generators, val *validator.Validator, log *logger.Logger) *Module {
	if gens.Outreach == nil {
		gens.Outreach = ai.StaticOutreach{}
	}
	if gens.Site == nil {
		gens.Site = ai.StaticSiteContent{}
	}
	return &Module{gens: gens, val: val, log: log}
}

func (m *Module) Name() string {
	return "generation"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	rg := ctx.V1.Group("/ai")
	rg.POST("/generate-outreach", m.GenerateOutreach)
	rg.POST("/generate-site-content", m.GenerateSiteContent)
	rg.POST("/marketing-insights", m.MarketingInsights)
}

func (m *Module) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return false
	}
	if err := m.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return false
	}
	return true
}

// GenerateOutreach always answers with a message; model failures return the
// generic one.
// POST /api/v1/ai/generate-outreach
func (m *Module) GenerateOutreach(c *gin.Context) {
	var req generateOutreachRequest
	if !m.bind(c, &req) {
		return
	}

	msg, err := m.gens.Outreach.GenerateMessage(c.Request.Context(), scoring.LeadFacts{
		Name:           sanitize.Text(req.Name),
		Company:        sanitize.Text(req.Company),
		Title:          sanitize.Text(req.Title),
		RecentActivity: sanitize.Text(req.RecentActivity),
	})
	if err != nil {
		m.log.WithContext(c.Request.Context()).Warn("generation: outreach failed, using generic message", "error", err)
		msg = ai.DefaultOutreachMessage(fallbackReason)
	}
	httpkit.OK(c, msg)
}

// POST /api/v1/ai/generate-site-content
func (m *Module) GenerateSiteContent(c *gin.Context) {
	var req generateSiteContentRequest
	if !m.bind(c, &req) {
		return
	}

	content, err := m.gens.Site.GenerateSiteContent(c.Request.Context(), ai.SiteBrief{
		Industry:       sanitize.Text(req.Industry),
		TargetAudience: sanitize.Text(req.TargetAudience),
		Goals:          req.Goals,
	})
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindUnavailable, "failed to generate site content", err))
		return
	}
	httpkit.OK(c, content)
}

// POST /api/v1/ai/marketing-insights
func (m *Module) MarketingInsights(c *gin.Context) {
	if m.gens.Insights == nil {
		httpkit.HandleError(c, apperr.Unavailable("marketing insights require a configured LLM"))
		return
	}
	var req marketingInsightsRequest
	if !m.bind(c, &req) {
		return
	}
	if req.Competitors == nil {
		req.Competitors = []map[string]any{}
	}

	insights, err := m.gens.Insights.GenerateInsights(c.Request.Context(), req.Competitors)
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindUnavailable, "failed to generate marketing insights", err))
		return
	}
	httpkit.OK(c, insights)
}

var _ apphttp.Module = (*Module)(nil)
