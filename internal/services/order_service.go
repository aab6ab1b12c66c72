package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"achatavis_backend/internal/algorithms"
	"achatavis_backend/internal/logger"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/repositories"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type OrderService interface {
	CreateOrder(ctx context.Context, db *gorm.DB, artisanID string, req *dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, db *gorm.DB, artisanID, orderID string) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, db *gorm.DB, artisanID string, criteria dto.OrderSearchCriteria) (*dto.OrderListResponse, error)
	UpdateOrder(ctx context.Context, db *gorm.DB, artisanID, orderID string, req *dto.UpdateOrderRequest) (*dto.OrderResponse, error)

	// Переходы статуса
	SubmitOrder(ctx context.Context, db *gorm.DB, artisanID, orderID string, req *dto.SubmitOrderRequest) (*dto.SubmitOrderResponse, error)
	CancelOrder(ctx context.Context, db *gorm.DB, artisanID, orderID string) (*dto.CancelOrderResponse, error)

	// PromotePendingOrders вызывается внутри транзакции начисления пакета
	PromotePendingOrders(ctx context.Context, tx *gorm.DB, artisanID string) (int, error)
}

type orderService struct {
	orderRepo      repositories.OrderRepository
	proposalRepo   repositories.ProposalRepository
	submissionRepo repositories.SubmissionRepository
	sectorRepo     repositories.SectorRepository
	paymentRepo    repositories.PaymentRepository
	policy         algorithms.Policy
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	proposalRepo repositories.ProposalRepository,
	submissionRepo repositories.SubmissionRepository,
	sectorRepo repositories.SectorRepository,
	paymentRepo repositories.PaymentRepository,
	policy algorithms.Policy,
) OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		proposalRepo:   proposalRepo,
		submissionRepo: submissionRepo,
		sectorRepo:     sectorRepo,
		paymentRepo:    paymentRepo,
		policy:         policy,
	}
}

// ---------------- CRUD ----------------

func (s *orderService) CreateOrder(ctx context.Context, db *gorm.DB, artisanID string, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if req.SectorID != nil {
		if _, err := s.sectorRepo.FindByID(db, *req.SectorID); err != nil {
			return nil, handleOrderError(err)
		}
	}

	order := &models.ReviewOrder{
		ArtisanID:        artisanID,
		CompanyName:      strings.TrimSpace(req.CompanyName),
		EstablishmentURL: req.EstablishmentURL,
		City:             req.City,
		SectorID:         req.SectorID,
		Quantity:         req.Quantity,
		Tone:             req.Tone,
		Pace:             req.Pace,
		Language:         req.Language,
		Notes:            req.Notes,
		Status:           models.OrderStatusDraft,
	}
	if order.Tone == "" {
		order.Tone = models.OrderToneFriendly
	}
	if order.Pace == "" {
		order.Pace = models.OrderPaceNormal
	}
	if order.Language == "" {
		order.Language = "fr"
	}

	if err := s.orderRepo.Create(db, order); err != nil {
		return nil, apperrors.InternalError(err)
	}

	created, err := s.orderRepo.FindByID(db, order.ID)
	if err != nil {
		return nil, handleOrderError(err)
	}
	return buildOrderResponse(created, 0, s.policy), nil
}

func (s *orderService) GetOrder(ctx context.Context, db *gorm.DB, artisanID, orderID string) (*dto.OrderResponse, error) {
	order, err := s.findOwnedOrder(db, artisanID, orderID)
	if err != nil {
		return nil, err
	}
	return s.orderResponse(db, order)
}

func (s *orderService) ListOrders(ctx context.Context, db *gorm.DB, artisanID string, criteria dto.OrderSearchCriteria) (*dto.OrderListResponse, error) {
	page, pageSize := normalizePage(criteria.Page, criteria.PageSize)
	orders, total, err := s.orderRepo.FindWithFilter(db, repositories.OrderFilter{
		ArtisanID: artisanID,
		Status:    models.OrderStatus(criteria.Status),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.OrderListResponse{
		Orders:   make([]*dto.OrderResponse, 0, len(orders)),
		ListMeta: dto.ListMeta{Total: total, Page: page, PageSize: pageSize},
	}
	for i := range orders {
		item, err := s.orderResponse(db, &orders[i])
		if err != nil {
			return nil, err
		}
		resp.Orders = append(resp.Orders, item)
	}
	return resp, nil
}

// UpdateOrder - только черновик. После отправки количество и сектор зафиксированы.
func (s *orderService) UpdateOrder(ctx context.Context, db *gorm.DB, artisanID, orderID string, req *dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	order, err := s.findOwnedOrder(db, artisanID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusDraft {
		return nil, apperrors.ErrInvalidOrderStatus
	}

	if req.CompanyName != nil {
		order.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.EstablishmentURL != nil {
		order.EstablishmentURL = *req.EstablishmentURL
	}
	if req.City != nil {
		order.City = *req.City
	}
	if req.SectorID != nil {
		sector, err := s.sectorRepo.FindByID(db, *req.SectorID)
		if err != nil {
			return nil, handleOrderError(err)
		}
		order.SectorID = &sector.ID
		order.Sector = sector
	}
	if req.Quantity != nil {
		order.Quantity = *req.Quantity
	}
	if req.Tone != nil {
		order.Tone = *req.Tone
	}
	if req.Pace != nil {
		order.Pace = *req.Pace
	}
	if req.Language != nil {
		order.Language = *req.Language
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}

	if err := s.orderRepo.Update(db, order); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.orderResponse(db, order)
}

// ---------------- Transitions ----------------

// SubmitOrder. Если предложений меньше, чем quantity, без confirm возвращается
// предупреждение и статус не меняется. Квота списывается в той же транзакции, что и переход.
func (s *orderService) SubmitOrder(ctx context.Context, db *gorm.DB, artisanID, orderID string, req *dto.SubmitOrderRequest) (*dto.SubmitOrderResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	order, err := s.findOwnedOrder(tx, artisanID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusDraft && order.Status != models.OrderStatusPending {
		return nil, apperrors.ErrInvalidOrderStatus
	}
	if order.Quantity <= 0 || order.SectorID == nil || order.Sector == nil || !order.Sector.IsActive {
		return nil, apperrors.ErrOrderNotSubmittable
	}

	proposals, err := s.proposalRepo.CountByOrder(tx, order.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if missing := algorithms.ProposalDeficit(order.Quantity, int(proposals)); missing > 0 && !req.Confirm {
		resp, err := s.orderResponse(tx, order)
		if err != nil {
			return nil, err
		}
		return &dto.SubmitOrderResponse{
			Submitted:        false,
			MissingProposals: missing,
			Warning:          fmt.Sprintf("%d proposals missing: generate the remainder or confirm to submit anyway", missing),
			Order:            resp,
		}, nil
	}

	now := time.Now()
	target := models.OrderStatusSubmitted
	extra := map[string]interface{}{"submitted_at": now}

	pack, err := s.paymentRepo.ConsumeQuota(tx, artisanID, order.Quantity)
	switch {
	case err == nil:
		extra["payment_id"] = pack.ID
	case errors.Is(err, repositories.ErrInsufficientQuota):
		target = models.OrderStatusPending
	default:
		return nil, apperrors.InternalError(err)
	}

	if target == order.Status {
		// уже ждет оплаты, квоты все еще нет
		resp, err := s.orderResponse(tx, order)
		if err != nil {
			return nil, err
		}
		return &dto.SubmitOrderResponse{Submitted: true, AwaitingPayment: true, Order: resp}, nil
	}
	if !algorithms.CanTransition(order.Status, target) {
		return nil, apperrors.ErrInvalidOrderStatus
	}

	if err := s.orderRepo.TransitionStatus(tx, order.ID, []models.OrderStatus{order.Status}, target, extra); err != nil {
		return nil, handleOrderError(err)
	}

	updated, err := s.orderRepo.FindByID(tx, order.ID)
	if err != nil {
		return nil, handleOrderError(err)
	}
	resp, err := s.orderResponse(tx, updated)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Order submitted",
		slog.String("order_id", order.ID),
		slog.String("status", string(target)),
		slog.Int("quantity", order.Quantity),
	)
	return &dto.SubmitOrderResponse{
		Submitted:       true,
		AwaitingPayment: target == models.OrderStatusPending,
		Order:           resp,
	}, nil
}

// CancelOrder удаляет неопубликованные предложения и возвращает в пакет невостребованную квоту
func (s *orderService) CancelOrder(ctx context.Context, db *gorm.DB, artisanID, orderID string) (*dto.CancelOrderResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	order, err := s.findOwnedOrder(tx, artisanID, orderID)
	if err != nil {
		return nil, err
	}
	if !algorithms.CanTransition(order.Status, models.OrderStatusCancelled) {
		return nil, apperrors.ErrInvalidOrderStatus
	}

	deleted, err := s.proposalRepo.DeleteUnpublishedByOrder(tx, order.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	retained, err := s.proposalRepo.CountByOrder(tx, order.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refund := 0
	if order.PaymentID != nil {
		active, err := s.submissionRepo.CountActiveByOrder(tx, order.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		refund = max(order.Quantity-int(active), 0)
		if err := s.paymentRepo.RefundQuota(tx, *order.PaymentID, refund); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	now := time.Now()
	if err := s.orderRepo.TransitionStatus(tx, order.ID, []models.OrderStatus{order.Status}, models.OrderStatusCancelled,
		map[string]interface{}{"cancelled_at": now}); err != nil {
		return nil, handleOrderError(err)
	}

	updated, err := s.orderRepo.FindByID(tx, order.ID)
	if err != nil {
		return nil, handleOrderError(err)
	}
	resp := buildOrderResponse(updated, retained, s.policy)

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Order cancelled",
		slog.String("order_id", order.ID),
		slog.Int64("proposals_deleted", deleted),
		slog.Int("reviews_refunded", refund),
	)
	return &dto.CancelOrderResponse{
		Order:             resp,
		ProposalsDeleted:  deleted,
		ProposalsRetained: int(retained),
		ReviewsRefunded:   refund,
	}, nil
}

// PromotePendingOrders переводит ожидающие оплаты заказы в submitted по порядку отправки,
// пока хватает квоты. Заказ, который не помещается, пропускается.
func (s *orderService) PromotePendingOrders(ctx context.Context, tx *gorm.DB, artisanID string) (int, error) {
	pending, err := s.orderRepo.FindPendingByArtisan(tx, artisanID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}

	promoted := 0
	for i := range pending {
		order := &pending[i]
		pack, err := s.paymentRepo.ConsumeQuota(tx, artisanID, order.Quantity)
		if errors.Is(err, repositories.ErrInsufficientQuota) {
			continue
		}
		if err != nil {
			return promoted, apperrors.InternalError(err)
		}

		err = s.orderRepo.TransitionStatus(tx, order.ID,
			[]models.OrderStatus{models.OrderStatusPending}, models.OrderStatusSubmitted,
			map[string]interface{}{"payment_id": pack.ID, "submitted_at": time.Now()})
		if err != nil {
			return promoted, handleOrderError(err)
		}
		promoted++
	}

	if promoted > 0 {
		logger.CtxInfo(ctx, "Pending orders promoted", slog.String("artisan_id", artisanID), slog.Int("count", promoted))
	}
	return promoted, nil
}

// ---------------- Helpers ----------------

func (s *orderService) findOwnedOrder(db *gorm.DB, artisanID, orderID string) (*models.ReviewOrder, error) {
	order, err := s.orderRepo.FindByID(db, orderID)
	if err != nil {
		return nil, handleOrderError(err)
	}
	if order.ArtisanID != artisanID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return order, nil
}

func (s *orderService) orderResponse(db *gorm.DB, order *models.ReviewOrder) (*dto.OrderResponse, error) {
	count, err := s.proposalRepo.CountByOrder(db, order.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildOrderResponse(order, count, s.policy), nil
}

func handleOrderError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrOrderNotFound) {
		return apperrors.NewNotFoundError("order", "Order not found")
	}
	if errors.Is(err, repositories.ErrSectorNotFound) {
		return apperrors.NewNotFoundError("sector", "Sector not found")
	}
	if errors.Is(err, repositories.ErrOrderStatusChanged) {
		return apperrors.ErrInvalidOrderStatus
	}
	if errors.Is(err, repositories.ErrOrderFull) {
		return apperrors.ErrOrderFull
	}
	if errors.Is(err, repositories.ErrInsufficientQuota) {
		return apperrors.ErrQuotaExceeded
	}
	return apperrors.InternalError(err)
}
