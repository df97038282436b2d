package transport

import "heyjarvis_backend/internal/domain"

type ListApprovalsRequest struct {
	Status *domain.ApprovalStatus `form:"status" validate:"omitempty,oneof=pending approved rejected"`
	Limit  int                    `form:"limit" validate:"omitempty,min=1,max=500"`
}

type ApproveRequest struct {
	ApprovedBy string `json:"approvedBy" validate:"required,min=1,max=200"`
}

type RejectRequest struct {
	RejectedBy string `json:"rejectedBy" validate:"required,min=1,max=200"`
	Reason     string `json:"reason" validate:"omitempty,max=2000"`
}
