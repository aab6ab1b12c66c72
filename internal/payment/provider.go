package payment

import (
	"context"
	"errors"
)

var (
	ErrProviderNotConfigured = errors.New("payment provider is not configured")
	ErrProviderRejected      = errors.New("payment provider rejected the request")
)

// SessionStatus - состояние оплаты на стороне провайдера
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusPaid      SessionStatus = "paid"
	SessionStatusCancelled SessionStatus = "cancelled"
	SessionStatusUnknown   SessionStatus = "unknown"
)

type CheckoutRequest struct {
	InvID       int64
	Amount      float64
	Description string
	Email       string
}

type Checkout struct {
	URL string
}

type Verification struct {
	Success bool
	Status  SessionStatus
}

// ResultNotification - параметры серверного колбэка (ResultURL)
type ResultNotification struct {
	OutSum    string
	InvID     int64
	Signature string
}

// Provider - платежный шлюз. Ядру нужны только создание оплаты и проверка ее статуса.
type Provider interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
	VerifySession(ctx context.Context, invID int64) (*Verification, error)
	VerifyResult(n ResultNotification) bool
}
