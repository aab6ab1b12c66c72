package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"achatavis_backend/internal/config"
	"achatavis_backend/internal/logger"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/payment"
	"achatavis_backend/internal/repositories"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// PaymentOptions - параметры из секции payment конфига
type PaymentOptions struct {
	Plans      []config.PaymentPlan
	Currency   string
	Timeout    time.Duration
	SessionTTL time.Duration
}

type PaymentService interface {
	ListPlans(ctx context.Context) []dto.PlanResponse
	CreateCheckout(ctx context.Context, db *gorm.DB, artisanID string, req *dto.CheckoutRequest) (*dto.PaymentSessionResponse, error)
	GetSession(ctx context.Context, db *gorm.DB, artisanID, sessionID string) (*dto.ActivationResult, error)
	ListPacks(ctx context.Context, db *gorm.DB, artisanID string) ([]*dto.PackResponse, error)

	// HandleResult - серверный колбэк провайдера. Возвращает тело ответа "OK{InvId}".
	HandleResult(ctx context.Context, db *gorm.DB, req *dto.RobokassaResultRequest) (string, error)

	// ExpireStaleSessions вызывается воркером
	ExpireStaleSessions(ctx context.Context, db *gorm.DB) (int64, error)
}

type paymentService struct {
	paymentRepo repositories.PaymentRepository
	userRepo    repositories.UserRepository
	orders      OrderService
	provider    payment.Provider
	invoices    *payment.InvoiceIDs
	opts        PaymentOptions
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	userRepo repositories.UserRepository,
	orders OrderService,
	provider payment.Provider,
	invoices *payment.InvoiceIDs,
	opts PaymentOptions,
) PaymentService {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	return &paymentService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		orders:      orders,
		provider:    provider,
		invoices:    invoices,
		opts:        opts,
	}
}

func (s *paymentService) ListPlans(ctx context.Context) []dto.PlanResponse {
	plans := make([]dto.PlanResponse, 0, len(s.opts.Plans))
	for _, p := range s.opts.Plans {
		plans = append(plans, dto.PlanResponse{ID: p.ID, Name: p.Name, Reviews: p.Reviews, Price: p.Price})
	}
	return plans
}

func (s *paymentService) CreateCheckout(ctx context.Context, db *gorm.DB, artisanID string, req *dto.CheckoutRequest) (*dto.PaymentSessionResponse, error) {
	plan, ok := s.findPlan(req.PlanID)
	if !ok {
		return nil, apperrors.ErrUnknownPlan
	}

	artisan, err := s.userRepo.FindByID(db, artisanID)
	if err != nil {
		return nil, handlePaymentError(err)
	}

	session := &models.PaymentSession{
		InvID:     s.invoices.Next(),
		ArtisanID: artisanID,
		PlanID:    plan.ID,
		Reviews:   plan.Reviews,
		Amount:    plan.Price,
		Currency:  s.opts.Currency,
		Status:    models.PaymentStatusPending,
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	checkout, err := s.provider.CreateCheckout(callCtx, payment.CheckoutRequest{
		InvID:       session.InvID,
		Amount:      session.Amount,
		Description: fmt.Sprintf("%s - %d avis", plan.Name, plan.Reviews),
		Email:       artisan.Email,
	})
	logger.ExternalCallLog("payment", "create_checkout", time.Since(start), err)
	if err != nil {
		return nil, apperrors.ExternalError(err, "payment", "Payment provider is unavailable")
	}
	session.CheckoutURL = checkout.URL

	if err := s.paymentRepo.CreateSession(db, session); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Checkout created",
		slog.String("session_id", session.ID),
		slog.Int64("inv_id", session.InvID),
		slog.String("plan_id", plan.ID),
	)
	return buildPaymentSessionResponse(session), nil
}

// GetSession. Пока сессия не оплачена, статус уточняется у провайдера.
func (s *paymentService) GetSession(ctx context.Context, db *gorm.DB, artisanID, sessionID string) (*dto.ActivationResult, error) {
	session, err := s.paymentRepo.FindSessionByID(db, sessionID)
	if err != nil {
		return nil, handlePaymentError(err)
	}
	if session.ArtisanID != artisanID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if session.ActivatedAt != nil || session.Status == models.PaymentStatusFailed {
		return &dto.ActivationResult{Session: buildPaymentSessionResponse(session)}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	verification, err := s.provider.VerifySession(callCtx, session.InvID)
	logger.ExternalCallLog("payment", "verify_session", time.Since(start), err)
	if err != nil {
		// провайдер недоступен, отдаем то, что знаем
		logger.CtxWarn(ctx, "Payment verification failed", slog.String("session_id", session.ID), slog.String("error", err.Error()))
		return &dto.ActivationResult{Session: buildPaymentSessionResponse(session)}, nil
	}

	switch {
	case verification.Success:
		return s.activate(ctx, db, session)
	case verification.Status == payment.SessionStatusCancelled:
		session.Status = models.PaymentStatusFailed
		if err := s.paymentRepo.UpdateSession(db, session); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	return &dto.ActivationResult{Session: buildPaymentSessionResponse(session)}, nil
}

func (s *paymentService) ListPacks(ctx context.Context, db *gorm.DB, artisanID string) ([]*dto.PackResponse, error) {
	packs, err := s.paymentRepo.FindPacksByArtisan(db, artisanID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.PackResponse, 0, len(packs))
	for i := range packs {
		out = append(out, buildPackResponse(&packs[i]))
	}
	return out, nil
}

func (s *paymentService) HandleResult(ctx context.Context, db *gorm.DB, req *dto.RobokassaResultRequest) (string, error) {
	if !s.provider.VerifyResult(payment.ResultNotification{
		OutSum:    req.OutSum,
		InvID:     req.InvID,
		Signature: req.SignatureValue,
	}) {
		logger.CtxWarn(ctx, "Payment result with bad signature", slog.Int64("inv_id", req.InvID))
		return "", apperrors.ErrInvalidSignature
	}

	session, err := s.paymentRepo.FindSessionByInvID(db, req.InvID)
	if err != nil {
		return "", handlePaymentError(err)
	}

	amount, err := strconv.ParseFloat(req.OutSum, 64)
	if err != nil || math.Abs(amount-session.Amount) > 0.005 {
		return "", apperrors.ErrInvalidPaymentAmount
	}

	if _, err := s.activate(ctx, db, session); err != nil {
		return "", err
	}
	return fmt.Sprintf("OK%d", session.InvID), nil
}

func (s *paymentService) ExpireStaleSessions(ctx context.Context, db *gorm.DB) (int64, error) {
	expired, err := s.paymentRepo.ExpireStaleSessions(db, time.Now().Add(-s.opts.SessionTTL))
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return expired, nil
}

// activate - одноразовое начисление. Пакет создает только победитель условного апдейта,
// повторы колбэка и опроса получают Activated=false.
func (s *paymentService) activate(ctx context.Context, db *gorm.DB, session *models.PaymentSession) (*dto.ActivationResult, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	now := time.Now()
	err := s.paymentRepo.ActivateSession(tx, session.ID, now)
	if errors.Is(err, repositories.ErrSessionAlreadyActivated) {
		tx.Rollback()
		current, err := s.paymentRepo.FindSessionByID(db, session.ID)
		if err != nil {
			return nil, handlePaymentError(err)
		}
		return &dto.ActivationResult{Session: buildPaymentSessionResponse(current)}, nil
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	pack := &models.PaymentPack{
		ArtisanID:        session.ArtisanID,
		SessionID:        session.ID,
		PlanID:           session.PlanID,
		ReviewsTotal:     session.Reviews,
		ReviewsRemaining: session.Reviews,
	}
	if err := s.paymentRepo.CreatePack(tx, pack); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.paymentRepo.LinkSessionPack(tx, session.ID, pack.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	promoted, err := s.orders.PromotePendingOrders(ctx, tx, session.ArtisanID)
	if err != nil {
		return nil, err
	}

	updated, err := s.paymentRepo.FindSessionByID(tx, session.ID)
	if err != nil {
		return nil, handlePaymentError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Payment activated",
		slog.String("session_id", session.ID),
		slog.String("pack_id", pack.ID),
		slog.Int("reviews", pack.ReviewsTotal),
		slog.Int("orders_promoted", promoted),
	)
	return &dto.ActivationResult{
		Session:        buildPaymentSessionResponse(updated),
		Activated:      true,
		OrdersPromoted: promoted,
	}, nil
}

func (s *paymentService) findPlan(id string) (config.PaymentPlan, bool) {
	for _, p := range s.opts.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return config.PaymentPlan{}, false
}

func handlePaymentError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrPaymentSessionNotFound):
		return apperrors.NewNotFoundError("payment", "Payment session not found")
	case errors.Is(err, repositories.ErrPaymentPackNotFound):
		return apperrors.NewNotFoundError("payment", "Payment pack not found")
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.NewNotFoundError("user", "User not found")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}
