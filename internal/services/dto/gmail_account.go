package dto

import (
	"time"

	"achatavis_backend/internal/algorithms"
	"achatavis_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

type PreviewAccountRequest struct {
	Email          string `json:"email" validate:"required"`
	MapsProfileURL string `json:"maps_profile_url" validate:"omitempty,url"`
	PhoneVerified  bool   `json:"phone_verified"`
}

type AddAccountRequest struct {
	Email          string `json:"email" validate:"required"`
	MapsProfileURL string `json:"maps_profile_url" validate:"omitempty,url"`
	PhoneVerified  bool   `json:"phone_verified"`
}

// SetTrustLevelRequest - раздельные поля: уровень обязателен, балл только явно
type SetTrustLevelRequest struct {
	TrustLevel         models.TrustLevel `json:"trust_level" validate:"required,is-trust-level"`
	TrustScoreOverride *int              `json:"trust_score_override,omitempty" validate:"omitempty,min=0,max=100"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type GmailAccountSearchCriteria struct {
	GuideID    string `form:"guide_id"`
	TrustLevel string `form:"trust_level" validate:"omitempty,is-trust-level"`
	IsActive   *bool  `form:"is_active"`
	Search     string `form:"search" validate:"omitempty,max=100"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// ======================
// Response DTOs
// ======================

type TrustPreviewResponse struct {
	Email            string                 `json:"email"`
	Trust            *algorithms.TrustResult `json:"trust"`
	ProfileAvailable bool                   `json:"profile_available"`
	LocalGuideLevel  int                    `json:"local_guide_level"`
	TotalReviews     int                    `json:"total_reviews_google"`
	AccountLevel     string                 `json:"account_level"`
}

type GmailAccountResponse struct {
	ID                 string            `json:"id"`
	GuideID            string            `json:"guide_id"`
	Email              string            `json:"email"`
	MapsProfileURL     string            `json:"maps_profile_url,omitempty"`
	AvatarURL          string            `json:"avatar_url,omitempty"`
	LocalGuideLevel    int               `json:"local_guide_level"`
	TotalReviewsGoogle int               `json:"total_reviews_google"`
	PhoneVerified      bool              `json:"phone_verified"`
	IsVerified         bool              `json:"is_verified"`
	TrustScoreValue    int               `json:"trust_score_value"`
	TrustLevel         models.TrustLevel `json:"trust_level"`
	Badge              algorithms.Badge  `json:"badge"`
	AccountLevel       string            `json:"account_level"`
	Restrictions       []string          `json:"restrictions"`
	MaxReviewsPerMonth int               `json:"max_reviews_per_month"`
	IsActive           bool              `json:"is_active"`
	TrustOverride      bool              `json:"trust_override"`
	ReviewsPosted      int               `json:"reviews_posted"`
	LastCheckedAt      *time.Time        `json:"last_checked_at,omitempty"`
	LastUsedAt         *time.Time        `json:"last_used_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`

	// Breakdown есть только сразу после расчета
	Breakdown       *algorithms.TrustBreakdown `json:"breakdown,omitempty"`
	Recommendations []string                   `json:"recommendations,omitempty"`
}

type GmailAccountListResponse struct {
	Accounts []*GmailAccountResponse `json:"accounts"`
	ListMeta
}

type RemoveAccountResponse struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}
