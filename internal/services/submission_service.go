package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"achatavis_backend/internal/algorithms"
	"achatavis_backend/internal/email"
	"achatavis_backend/internal/logger"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/repositories"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type SubmissionService interface {
	// Guide operations
	ClaimProposal(ctx context.Context, db *gorm.DB, guideID, proposalID string, req *dto.ClaimProposalRequest) (*dto.SubmissionResponse, error)
	ListGuideSubmissions(ctx context.Context, db *gorm.DB, guideID string, criteria dto.SubmissionSearchCriteria) (*dto.SubmissionListResponse, error)

	// Admin operations
	ListSubmissions(ctx context.Context, db *gorm.DB, criteria dto.SubmissionSearchCriteria) (*dto.SubmissionListResponse, error)
	ValidateSubmission(ctx context.Context, db *gorm.DB, adminID, submissionID string) (*dto.SubmissionResponse, error)
	RejectSubmission(ctx context.Context, db *gorm.DB, adminID, submissionID string, req *dto.RejectSubmissionRequest) (*dto.SubmissionResponse, error)
}

type submissionService struct {
	orderRepo      repositories.OrderRepository
	proposalRepo   repositories.ProposalRepository
	submissionRepo repositories.SubmissionRepository
	gmailRepo      repositories.GmailAccountRepository
	userRepo       repositories.UserRepository
	paymentRepo    repositories.PaymentRepository
	compliance     ComplianceService
	notifier       email.Notifier
	policy         algorithms.Policy
	now            func() time.Time
}

func NewSubmissionService(
	orderRepo repositories.OrderRepository,
	proposalRepo repositories.ProposalRepository,
	submissionRepo repositories.SubmissionRepository,
	gmailRepo repositories.GmailAccountRepository,
	userRepo repositories.UserRepository,
	paymentRepo repositories.PaymentRepository,
	compliance ComplianceService,
	notifier email.Notifier,
	policy algorithms.Policy,
) SubmissionService {
	if notifier == nil {
		notifier = email.NoopNotifier{}
	}
	return &submissionService{
		orderRepo:      orderRepo,
		proposalRepo:   proposalRepo,
		submissionRepo: submissionRepo,
		gmailRepo:      gmailRepo,
		userRepo:       userRepo,
		paymentRepo:    paymentRepo,
		compliance:     compliance,
		notifier:       notifier,
		policy:         policy,
		now:            time.Now,
	}
}

// ---------------- Guide operations ----------------

// ClaimProposal - все проверки и привязка в одной транзакции.
// Привязка условная: из двух гидов, взявших одно предложение, выигрывает один.
func (s *submissionService) ClaimProposal(ctx context.Context, db *gorm.DB, guideID, proposalID string, req *dto.ClaimProposalRequest) (*dto.SubmissionResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	proposal, err := s.proposalRepo.FindByID(tx, proposalID)
	if err != nil {
		return nil, handleSubmissionError(err)
	}
	if proposal.IsPublished() {
		return nil, apperrors.ErrProposalAlreadyClaimed
	}

	// Блокировки всегда в порядке заказ -> аккаунт. Счетчики ниже читаются под ними,
	// так что лимиты заказа и аккаунта не превышаются параллельными захватами.
	order, err := s.orderRepo.FindByIDForUpdate(tx, proposal.OrderID)
	if err != nil {
		return nil, handleSubmissionError(err)
	}
	if !isOpenOrder(order) || order.Sector == nil {
		return nil, apperrors.ErrInvalidOrderStatus
	}

	account, err := s.gmailRepo.FindByIDForUpdate(tx, req.GmailAccountID)
	if err != nil {
		return nil, handleSubmissionError(err)
	}
	if account.GuideID != guideID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if decision := algorithms.CheckEligibility(account, order.Sector, s.policy); !decision.Eligible {
		return nil, eligibilityError(decision)
	}

	compliance, err := s.compliance.Evaluate(ctx, tx, guideID)
	if err != nil {
		return nil, err
	}
	if !compliance.CanTakeMissions {
		return nil, apperrors.ErrComplianceTooLow.WithDetails(map[string]int{
			"score":    compliance.Score,
			"required": s.policy.MinComplianceToClaim,
		})
	}

	now := s.now()
	used, err := s.submissionRepo.CountActiveByAccountSince(tx, account.ID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if limit := s.policy.MaxReviewsPerMonth.For(account.TrustLevel); int(used) >= limit {
		return nil, apperrors.ErrMonthlyLimitReached.WithDetails(map[string]int{
			"used":  int(used),
			"limit": limit,
		})
	}

	active, err := s.submissionRepo.CountActiveByOrder(tx, order.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if int(active) >= order.Quantity {
		return nil, apperrors.ErrOrderFull
	}

	submission := &models.ReviewSubmission{
		GuideID:        guideID,
		OrderID:        order.ID,
		ProposalID:     proposal.ID,
		GmailAccountID: account.ID,
		ReviewURL:      req.ReviewURL,
		Status:         models.SubmissionStatusPending,
		Earnings:       rewardFor(order.Sector, s.policy),
	}
	if err := s.submissionRepo.Create(tx, submission); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.proposalRepo.Claim(tx, proposal.ID, submission.ID); err != nil {
		if errors.Is(err, repositories.ErrProposalClaimed) {
			return nil, apperrors.ErrProposalAlreadyClaimed
		}
		return nil, apperrors.InternalError(err)
	}

	// первая публикация переводит заказ в работу; проигравший в гонке statusChanged игнорирует
	if order.Status == models.OrderStatusSubmitted {
		err := s.orderRepo.TransitionStatus(tx, order.ID,
			[]models.OrderStatus{models.OrderStatusSubmitted}, models.OrderStatusInProgress, nil)
		if err != nil && !errors.Is(err, repositories.ErrOrderStatusChanged) {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Proposal claimed",
		slog.String("proposal_id", proposal.ID),
		slog.String("submission_id", submission.ID),
		slog.String("gmail_account_id", account.ID),
	)
	return buildSubmissionResponse(submission), nil
}

func (s *submissionService) ListGuideSubmissions(ctx context.Context, db *gorm.DB, guideID string, criteria dto.SubmissionSearchCriteria) (*dto.SubmissionListResponse, error) {
	return s.list(db, guideID, criteria)
}

// ---------------- Admin operations ----------------

func (s *submissionService) ListSubmissions(ctx context.Context, db *gorm.DB, criteria dto.SubmissionSearchCriteria) (*dto.SubmissionListResponse, error) {
	return s.list(db, "", criteria)
}

// ValidateSubmission. Счетчик заказа растет условно, достижение quantity закрывает заказ.
func (s *submissionService) ValidateSubmission(ctx context.Context, db *gorm.DB, adminID, submissionID string) (*dto.SubmissionResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	submission, err := s.submissionRepo.FindByID(tx, submissionID)
	if err != nil {
		return nil, handleSubmissionError(err)
	}

	now := s.now()
	if err := s.submissionRepo.Review(tx, submission.ID, models.SubmissionStatusValidated, map[string]interface{}{
		"reviewed_by": adminID,
		"reviewed_at": now,
	}); err != nil {
		return nil, handleSubmissionError(err)
	}

	order, err := s.orderRepo.IncrementReceived(tx, submission.OrderID)
	if err != nil {
		return nil, handleSubmissionError(err)
	}

	completed := false
	if order.ReviewsReceived >= order.Quantity && order.Status == models.OrderStatusInProgress {
		err := s.orderRepo.TransitionStatus(tx, order.ID,
			[]models.OrderStatus{models.OrderStatusInProgress}, models.OrderStatusCompleted,
			map[string]interface{}{"completed_at": now})
		if err != nil && !errors.Is(err, repositories.ErrOrderStatusChanged) {
			return nil, apperrors.InternalError(err)
		}
		completed = err == nil
	}

	if err := s.gmailRepo.RecordActivity(tx, submission.GmailAccountID, now); err != nil &&
		!errors.Is(err, repositories.ErrGmailAccountNotFound) {
		return nil, apperrors.InternalError(err)
	}

	updated, err := s.submissionRepo.FindByID(tx, submission.ID)
	if err != nil {
		return nil, handleSubmissionError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Submission validated",
		slog.String("submission_id", submission.ID),
		slog.String("order_id", order.ID),
		slog.Int("reviews_received", order.ReviewsReceived),
		slog.Bool("order_completed", completed),
	)

	s.notifyGuide(ctx, db, updated, order, true)
	if completed {
		s.notifyArtisan(ctx, db, order)
	}
	return buildSubmissionResponse(updated), nil
}

// RejectSubmission освобождает предложение для другого гида
func (s *submissionService) RejectSubmission(ctx context.Context, db *gorm.DB, adminID, submissionID string, req *dto.RejectSubmissionRequest) (*dto.SubmissionResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	submission, err := s.submissionRepo.FindByID(tx, submissionID)
	if err != nil {
		return nil, handleSubmissionError(err)
	}

	if err := s.submissionRepo.Review(tx, submission.ID, models.SubmissionStatusRejected, map[string]interface{}{
		"rejection_reason": req.Reason,
		"earnings":         0,
		"reviewed_by":      adminID,
		"reviewed_at":      s.now(),
	}); err != nil {
		return nil, handleSubmissionError(err)
	}

	if err := s.proposalRepo.Release(tx, submission.ProposalID, submission.ID); err != nil {
		return nil, handleSubmissionError(err)
	}

	order, err := s.orderRepo.FindByID(tx, submission.OrderID)
	if err != nil {
		return nil, handleSubmissionError(err)
	}
	// заказ отменен, пока публикация ждала проверки: предложение больше никто не возьмет,
	// поэтому оно удаляется, а его отзыв возвращается в пакет
	if order.Status == models.OrderStatusCancelled {
		if err := s.proposalRepo.Delete(tx, submission.ProposalID); err != nil {
			return nil, handleSubmissionError(err)
		}
		if order.PaymentID != nil {
			if err := s.paymentRepo.RefundQuota(tx, *order.PaymentID, 1); err != nil {
				return nil, apperrors.InternalError(err)
			}
		}
	}

	if req.RuleKey != "" {
		_, err := s.compliance.RecordViolation(ctx, tx, adminID, submission.GuideID, &dto.RecordViolationRequest{
			RuleKey:      req.RuleKey,
			SubmissionID: &submission.ID,
			Note:         req.Reason,
		})
		if err != nil {
			return nil, err
		}
	}

	updated, err := s.submissionRepo.FindByID(tx, submission.ID)
	if err != nil {
		return nil, handleSubmissionError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Submission rejected",
		slog.String("submission_id", submission.ID),
		slog.String("rule_key", req.RuleKey),
	)

	s.notifyGuide(ctx, db, updated, order, false)
	return buildSubmissionResponse(updated), nil
}

// ---------------- Helpers ----------------

func (s *submissionService) list(db *gorm.DB, guideID string, criteria dto.SubmissionSearchCriteria) (*dto.SubmissionListResponse, error) {
	page, pageSize := normalizePage(criteria.Page, criteria.PageSize)
	submissions, total, err := s.submissionRepo.FindWithFilter(db, repositories.SubmissionFilter{
		GuideID:  guideID,
		OrderID:  criteria.OrderID,
		Status:   models.SubmissionStatus(criteria.Status),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.SubmissionListResponse{
		Submissions: make([]*dto.SubmissionResponse, 0, len(submissions)),
		ListMeta:    dto.ListMeta{Total: total, Page: page, PageSize: pageSize},
	}
	for i := range submissions {
		resp.Submissions = append(resp.Submissions, buildSubmissionResponse(&submissions[i]))
	}
	return resp, nil
}

func (s *submissionService) notifyGuide(ctx context.Context, db *gorm.DB, submission *models.ReviewSubmission, order *models.ReviewOrder, validated bool) {
	guide, err := s.userRepo.FindByID(db, submission.GuideID)
	if err != nil {
		logger.CtxWarn(ctx, "Guide not found for notification", slog.String("guide_id", submission.GuideID))
		return
	}

	data := email.TemplateData{
		"Name":        guide.Email,
		"CompanyName": order.CompanyName,
		"ReviewURL":   submission.ReviewURL,
		"Earnings":    submission.Earnings,
		"Reason":      submission.RejectionReason,
	}
	if validated {
		s.notifier.SubmissionValidated(ctx, guide.Email, data)
		return
	}
	s.notifier.SubmissionRejected(ctx, guide.Email, data)
}

func (s *submissionService) notifyArtisan(ctx context.Context, db *gorm.DB, order *models.ReviewOrder) {
	artisan, err := s.userRepo.FindByID(db, order.ArtisanID)
	if err != nil {
		logger.CtxWarn(ctx, "Artisan not found for notification", slog.String("artisan_id", order.ArtisanID))
		return
	}
	s.notifier.OrderCompleted(ctx, artisan.Email, email.TemplateData{
		"Name":        artisan.Email,
		"CompanyName": order.CompanyName,
		"Quantity":    order.Quantity,
	})
}

func handleSubmissionError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrSubmissionNotFound):
		return apperrors.NewNotFoundError("submission", "Submission not found")
	case errors.Is(err, repositories.ErrSubmissionReviewed):
		return apperrors.ErrInvalidSubmissionStatus
	case errors.Is(err, repositories.ErrProposalNotFound):
		return apperrors.NewNotFoundError("proposal", "Proposal not found")
	case errors.Is(err, repositories.ErrProposalClaimed):
		return apperrors.ErrProposalAlreadyClaimed
	case errors.Is(err, repositories.ErrOrderNotFound):
		return apperrors.NewNotFoundError("order", "Order not found")
	case errors.Is(err, repositories.ErrOrderFull):
		return apperrors.ErrOrderFull
	case errors.Is(err, repositories.ErrGmailAccountNotFound):
		return apperrors.NewNotFoundError("gmail_account", "Gmail account not found")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}
