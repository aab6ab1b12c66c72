package dto

import (
	"time"

	"achatavis_backend/internal/models"
)

type ClaimProposalRequest struct {
	GmailAccountID string `json:"gmail_account_id" validate:"required,uuid"`
	ReviewURL      string `json:"review_url" validate:"required,url"`
}

type RejectSubmissionRequest struct {
	Reason  string `json:"reason" validate:"required,max=1000"`
	RuleKey string `json:"rule_key,omitempty" validate:"omitempty,max=64"`
}

type SubmissionSearchCriteria struct {
	Status   string `form:"status" validate:"omitempty,is-submission-status"`
	OrderID  string `form:"order_id" validate:"omitempty,uuid"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type SubmissionResponse struct {
	ID              string                  `json:"id"`
	GuideID         string                  `json:"guide_id"`
	OrderID         string                  `json:"order_id"`
	ProposalID      string                  `json:"proposal_id"`
	GmailAccountID  string                  `json:"gmail_account_id"`
	ReviewURL       string                  `json:"review_url"`
	Status          models.SubmissionStatus `json:"status"`
	RejectionReason string                  `json:"rejection_reason,omitempty"`
	Earnings        float64                 `json:"earnings"`
	ReviewedAt      *time.Time              `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

type SubmissionListResponse struct {
	Submissions []*SubmissionResponse `json:"submissions"`
	ListMeta
}
