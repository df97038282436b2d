package transport

import "heyjarvis_backend/internal/domain"

type ListWorkflowsRequest struct {
	Status *domain.WorkflowStatus `form:"status" validate:"omitempty,oneof=pending running completed failed paused"`
	Limit  int                    `form:"limit" validate:"omitempty,min=1,max=500"`
}

type CreateWorkflowRequest struct {
	Name        string                 `json:"name" validate:"required,min=1,max=200"`
	Description *string                `json:"description,omitempty" validate:"omitempty,max=2000"`
	Domain      domain.Domain          `json:"domain" validate:"required,oneof=sales marketing engineering orchestration"`
	Type        string                 `json:"type" validate:"required,min=1,max=100"`
	Status      *domain.WorkflowStatus `json:"status,omitempty" validate:"omitempty,oneof=pending running paused"`
	Config      map[string]any         `json:"config,omitempty"`
	TotalSteps  int                    `json:"totalSteps" validate:"omitempty,min=1,max=1000"`
}

type UpdateWorkflowRequest struct {
	Status   *domain.WorkflowStatus `json:"status,omitempty" validate:"omitempty,oneof=pending running completed failed paused"`
	Progress *int                   `json:"progress,omitempty" validate:"omitempty,min=0,max=100"`
	Results  map[string]any         `json:"results,omitempty"`
}
