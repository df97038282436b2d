package transport

import (
	"heyjarvis_backend/internal/domain"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/internal/scoring"
)

// Request DTOs
type CreateLeadRequest struct {
	Source         domain.LeadSource `json:"source" validate:"required,oneof=linkedin csv gmail salesforce hubspot"`
	Name           string            `json:"name" validate:"required,min=1,max=200"`
	Company        *string           `json:"company,omitempty" validate:"omitempty,max=200"`
	Title          *string           `json:"title,omitempty" validate:"omitempty,max=200"`
	Email          *string           `json:"email,omitempty" validate:"omitempty,email"`
	ProfileURL     *string           `json:"profileUrl,omitempty" validate:"omitempty,url"`
	RecentActivity *string           `json:"recentActivity,omitempty" validate:"omitempty,max=2000"`
	Score          *int              `json:"score,omitempty" validate:"omitempty,min=1,max=100"`
	RawData        map[string]any    `json:"rawData,omitempty"`
}

// ImportLeadInput is one lead of an import batch. The batch carries the source.
type ImportLeadInput struct {
	Name           string         `json:"name" validate:"required,min=1,max=200"`
	Company        *string        `json:"company,omitempty" validate:"omitempty,max=200"`
	Title          *string        `json:"title,omitempty" validate:"omitempty,max=200"`
	Email          *string        `json:"email,omitempty" validate:"omitempty,email"`
	ProfileURL     *string        `json:"profileUrl,omitempty" validate:"omitempty,url"`
	RecentActivity *string        `json:"recentActivity,omitempty" validate:"omitempty,max=2000"`
	RawData        map[string]any `json:"rawData,omitempty"`
}

type ImportLeadsRequest struct {
	Source domain.LeadSource `json:"source" validate:"required,oneof=linkedin csv gmail salesforce hubspot"`
	Leads  []ImportLeadInput `json:"leads" validate:"required,min=1,max=1000"`
}

type UpdateLeadRequest struct {
	Name           *string            `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Company        *string            `json:"company,omitempty" validate:"omitempty,max=200"`
	Title          *string            `json:"title,omitempty" validate:"omitempty,max=200"`
	Email          *string            `json:"email,omitempty" validate:"omitempty,email"`
	ProfileURL     *string            `json:"profileUrl,omitempty" validate:"omitempty,url"`
	RecentActivity *string            `json:"recentActivity,omitempty" validate:"omitempty,max=2000"`
	Score          *int               `json:"score,omitempty" validate:"omitempty,min=1,max=100"`
	Status         *domain.LeadStatus `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected contacted"`
	RawData        map[string]any     `json:"rawData,omitempty"`
}

type ListLeadsRequest struct {
	Status *domain.LeadStatus `form:"status" validate:"omitempty,oneof=pending approved rejected contacted"`
	Limit  int                `form:"limit" validate:"omitempty,min=1,max=500"`
	Offset int                `form:"offset" validate:"omitempty,min=0"`
}

type ScoreLeadsRequest struct {
	LeadIDs []int64 `json:"leadIds" validate:"required,min=1,max=500,dive,gt=0"`
}

// Response DTOs

// ImportError describes one lead that could not be imported.
type ImportError struct {
	Lead  ImportLeadInput `json:"lead"`
	Error string          `json:"error"`
}

type ImportLeadsResponse struct {
	Success      bool              `json:"success"`
	Imported     int               `json:"imported"`
	Errors       int               `json:"errors"`
	Leads        []repository.Lead `json:"leads"`
	ImportErrors []ImportError     `json:"importErrors"`
}

type ScoreLeadsResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Scored  []scoring.ScoredLead `json:"scored"`
}

type LeadStatsResponse struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Contacted int `json:"contacted"`
}
