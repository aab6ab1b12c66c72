package dto

import (
	"time"

	"achatavis_backend/internal/models"
)

type CheckoutRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
}

// RobokassaResultRequest - form-параметры ResultURL
type RobokassaResultRequest struct {
	OutSum         string `form:"OutSum" validate:"required"`
	InvID          int64  `form:"InvId" validate:"required"`
	SignatureValue string `form:"SignatureValue" validate:"required"`
}

type PlanResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Reviews int     `json:"reviews"`
	Price   float64 `json:"price"`
}

type PaymentSessionResponse struct {
	ID          string               `json:"id"`
	InvID       int64                `json:"inv_id"`
	PlanID      string               `json:"plan_id"`
	Reviews     int                  `json:"reviews"`
	Amount      float64              `json:"amount"`
	Currency    string               `json:"currency"`
	Status      models.PaymentStatus `json:"status"`
	CheckoutURL string               `json:"checkout_url,omitempty"`
	PaidAt      *time.Time           `json:"paid_at,omitempty"`
	PackID      *string              `json:"pack_id,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

type PackResponse struct {
	ID               string    `json:"id"`
	PlanID           string    `json:"plan_id"`
	ReviewsTotal     int       `json:"reviews_total"`
	ReviewsRemaining int       `json:"reviews_remaining"`
	CreatedAt        time.Time `json:"created_at"`
}

// ActivationResult - итог начисления пакета
type ActivationResult struct {
	Session        *PaymentSessionResponse `json:"session"`
	Activated      bool                    `json:"activated"`
	OrdersPromoted int                     `json:"orders_promoted"`
}
