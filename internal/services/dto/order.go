package dto

import (
	"time"

	"achatavis_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

type CreateOrderRequest struct {
	CompanyName      string           `json:"company_name" validate:"required,max=200"`
	EstablishmentURL string           `json:"establishment_url" validate:"omitempty,url"`
	City             string           `json:"city" validate:"omitempty,max=100"`
	SectorID         *string          `json:"sector_id,omitempty" validate:"omitempty,uuid"`
	Quantity         int              `json:"quantity" validate:"min=0,max=500"`
	Tone             models.OrderTone `json:"tone" validate:"omitempty,is-order-tone"`
	Pace             models.OrderPace `json:"pace" validate:"omitempty,is-order-pace"`
	Language         string           `json:"language" validate:"omitempty,len=2"`
	Notes            string           `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateOrderRequest struct {
	CompanyName      *string           `json:"company_name,omitempty" validate:"omitempty,max=200"`
	EstablishmentURL *string           `json:"establishment_url,omitempty" validate:"omitempty,url"`
	City             *string           `json:"city,omitempty" validate:"omitempty,max=100"`
	SectorID         *string           `json:"sector_id,omitempty" validate:"omitempty,uuid"`
	Quantity         *int              `json:"quantity,omitempty" validate:"omitempty,min=0,max=500"`
	Tone             *models.OrderTone `json:"tone,omitempty" validate:"omitempty,is-order-tone"`
	Pace             *models.OrderPace `json:"pace,omitempty" validate:"omitempty,is-order-pace"`
	Language         *string           `json:"language,omitempty" validate:"omitempty,len=2"`
	Notes            *string           `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type SubmitOrderRequest struct {
	// Confirm - отправить, даже если предложений меньше, чем quantity
	Confirm bool `json:"confirm"`
}

type OrderSearchCriteria struct {
	Status   string `form:"status"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// ======================
// Response DTOs
// ======================

type OrderResponse struct {
	ID               string             `json:"id"`
	ArtisanID        string             `json:"artisan_id"`
	CompanyName      string             `json:"company_name"`
	EstablishmentURL string             `json:"establishment_url,omitempty"`
	City             string             `json:"city,omitempty"`
	SectorID         *string            `json:"sector_id,omitempty"`
	Sector           *SectorResponse    `json:"sector,omitempty"`
	Quantity         int                `json:"quantity"`
	Tone             models.OrderTone   `json:"tone"`
	Pace             models.OrderPace   `json:"pace"`
	Language         string             `json:"language"`
	Notes            string             `json:"notes,omitempty"`
	Status           models.OrderStatus `json:"status"`
	ReviewsReceived  int                `json:"reviews_received"`
	ProposalCount    int64              `json:"proposal_count"`
	PaymentID        *string            `json:"payment_id,omitempty"`
	SubmittedAt      *time.Time         `json:"submitted_at,omitempty"`
	CompletedAt      *time.Time         `json:"completed_at,omitempty"`
	CancelledAt      *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

type OrderListResponse struct {
	Orders []*OrderResponse `json:"orders"`
	ListMeta
}

// SubmitOrderResponse. Submitted=false - предупреждение о нехватке предложений, статус не менялся.
type SubmitOrderResponse struct {
	Submitted        bool           `json:"submitted"`
	MissingProposals int            `json:"missing_proposals,omitempty"`
	Warning          string         `json:"warning,omitempty"`
	AwaitingPayment  bool           `json:"awaiting_payment,omitempty"`
	Order            *OrderResponse `json:"order"`
}

type CancelOrderResponse struct {
	Order             *OrderResponse `json:"order"`
	ProposalsDeleted  int64          `json:"proposals_deleted"`
	ProposalsRetained int            `json:"proposals_retained"`
	ReviewsRefunded   int            `json:"reviews_refunded"`
}

// MissionResponse - заказ глазами гида
type MissionResponse struct {
	OrderID        string          `json:"order_id"`
	CompanyName    string          `json:"company_name"`
	City           string          `json:"city,omitempty"`
	Sector         *SectorResponse `json:"sector,omitempty"`
	Tone           models.OrderTone `json:"tone"`
	Language       string          `json:"language"`
	OpenProposals  int64           `json:"open_proposals"`
	Reward         float64         `json:"reward"`
	MatchScore     float64         `json:"match_score"`
	MatchReasons   []string        `json:"match_reasons,omitempty"`
	EligibleAny    bool            `json:"eligible_any"`
	ProposalIDs    []string        `json:"proposal_ids,omitempty"`
}

type EligibilityResponse struct {
	OrderID        string `json:"order_id"`
	GmailAccountID string `json:"gmail_account_id"`
	Eligible       bool   `json:"eligible"`
	Reason         string `json:"reason,omitempty"`
	Message        string `json:"message,omitempty"`
}
