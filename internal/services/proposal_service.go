package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"achatavis_backend/internal/algorithms"
	"achatavis_backend/internal/logger"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/repositories"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/internal/textgen"
	"achatavis_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProposalService interface {
	ListProposals(ctx context.Context, db *gorm.DB, artisanID, orderID string) ([]*dto.ProposalResponse, error)
	CreateProposal(ctx context.Context, db *gorm.DB, artisanID, orderID string, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error)
	UpdateProposal(ctx context.Context, db *gorm.DB, artisanID, proposalID string, req *dto.UpdateProposalRequest) (*dto.ProposalResponse, error)
	DeleteProposal(ctx context.Context, db *gorm.DB, artisanID, proposalID string) error

	// GenerateProposals дописывает недостающие предложения через генератор.
	// Force удаляет неопубликованные и генерирует набор заново.
	GenerateProposals(ctx context.Context, db *gorm.DB, artisanID, orderID string, req *dto.GenerateProposalsRequest) (*dto.GenerateProposalsResponse, error)
}

type proposalService struct {
	orderRepo    repositories.OrderRepository
	proposalRepo repositories.ProposalRepository
	generator    textgen.Generator
	timeout      time.Duration
}

func NewProposalService(
	orderRepo repositories.OrderRepository,
	proposalRepo repositories.ProposalRepository,
	generator textgen.Generator,
	timeout time.Duration,
) ProposalService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &proposalService{
		orderRepo:    orderRepo,
		proposalRepo: proposalRepo,
		generator:    generator,
		timeout:      timeout,
	}
}

func (s *proposalService) ListProposals(ctx context.Context, db *gorm.DB, artisanID, orderID string) ([]*dto.ProposalResponse, error) {
	if _, err := s.findOwnedOrder(db, artisanID, orderID); err != nil {
		return nil, err
	}

	proposals, err := s.proposalRepo.FindByOrder(db, orderID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildProposalResponses(proposals), nil
}

func (s *proposalService) CreateProposal(ctx context.Context, db *gorm.DB, artisanID, orderID string, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error) {
	order, err := s.findOwnedOrder(db, artisanID, orderID)
	if err != nil {
		return nil, err
	}
	if !algorithms.ProposalsEditable(order.Status) {
		return nil, apperrors.ErrInvalidOrderStatus
	}
	// после отправки набор не растет выше quantity: гиды захватывают только его
	if order.Status != models.OrderStatusDraft {
		count, err := s.proposalRepo.CountByOrder(db, order.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if int(count) >= order.Quantity {
			return nil, apperrors.ErrProposalSetFull
		}
	}

	proposal := &models.ReviewProposal{
		OrderID:    order.ID,
		AuthorName: strings.TrimSpace(req.AuthorName),
		Rating:     req.Rating,
		Content:    strings.TrimSpace(req.Content),
	}
	if err := s.proposalRepo.Create(db, proposal); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildProposalResponse(proposal), nil
}

func (s *proposalService) UpdateProposal(ctx context.Context, db *gorm.DB, artisanID, proposalID string, req *dto.UpdateProposalRequest) (*dto.ProposalResponse, error) {
	proposal, err := s.findEditableProposal(db, artisanID, proposalID)
	if err != nil {
		return nil, err
	}

	if req.AuthorName != nil {
		proposal.AuthorName = strings.TrimSpace(*req.AuthorName)
	}
	if req.Rating != nil {
		proposal.Rating = *req.Rating
	}
	if req.Content != nil {
		proposal.Content = strings.TrimSpace(*req.Content)
	}

	if err := s.proposalRepo.Update(db, proposal); err != nil {
		return nil, handleProposalError(err)
	}
	return buildProposalResponse(proposal), nil
}

func (s *proposalService) DeleteProposal(ctx context.Context, db *gorm.DB, artisanID, proposalID string) error {
	proposal, err := s.findEditableProposal(db, artisanID, proposalID)
	if err != nil {
		return err
	}
	if err := s.proposalRepo.Delete(db, proposal.ID); err != nil {
		return handleProposalError(err)
	}
	return nil
}

func (s *proposalService) GenerateProposals(ctx context.Context, db *gorm.DB, artisanID, orderID string, req *dto.GenerateProposalsRequest) (*dto.GenerateProposalsResponse, error) {
	order, err := s.findOwnedOrder(db, artisanID, orderID)
	if err != nil {
		return nil, err
	}
	if !algorithms.ProposalsEditable(order.Status) {
		return nil, apperrors.ErrInvalidOrderStatus
	}
	if order.Quantity <= 0 {
		return nil, apperrors.ErrOrderNotSubmittable
	}

	missing, err := s.deficit(db, order, req.Force)
	if err != nil {
		return nil, err
	}
	if missing == 0 && !req.Force {
		return s.generationResult(db, order.ID, 0, 0)
	}

	var reviews []textgen.GeneratedReview
	if missing > 0 {
		// внешний вызов вне транзакции, не повторяется
		reviews, err = s.generate(ctx, order, missing)
		if err != nil {
			return nil, err
		}
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	var deleted int64
	if req.Force {
		if deleted, err = s.proposalRepo.DeleteUnpublishedByOrder(tx, order.ID); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	// пока шла генерация, набор мог измениться
	current, err := s.proposalRepo.CountByOrder(tx, order.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	need := algorithms.ProposalDeficit(order.Quantity, int(current))
	if len(reviews) > need {
		reviews = reviews[:need]
	}

	if len(reviews) > 0 {
		batch := make([]models.ReviewProposal, 0, len(reviews))
		for _, r := range reviews {
			batch = append(batch, models.ReviewProposal{
				OrderID:    order.ID,
				AuthorName: r.AuthorName,
				Rating:     r.Rating,
				Content:    r.Content,
				Generated:  true,
			})
		}
		if err := s.proposalRepo.CreateBatch(tx, batch); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	if len(reviews) < need {
		logger.CtxWarn(ctx, "Generator returned fewer reviews than requested",
			slog.String("order_id", order.ID),
			slog.Int("requested", need),
			slog.Int("received", len(reviews)),
		)
	}
	return s.generationResult(db, order.ID, len(reviews), deleted)
}

// ---------------- Helpers ----------------

// deficit - сколько предложений генерировать. При force опубликованные остаются и засчитываются.
func (s *proposalService) deficit(db *gorm.DB, order *models.ReviewOrder, force bool) (int, error) {
	total, err := s.proposalRepo.CountByOrder(db, order.ID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	if !force {
		return algorithms.ProposalDeficit(order.Quantity, int(total)), nil
	}

	unclaimed, err := s.proposalRepo.CountUnclaimedByOrder(db, order.ID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return algorithms.ProposalDeficit(order.Quantity, int(total-unclaimed)), nil
}

func (s *proposalService) generate(ctx context.Context, order *models.ReviewOrder, count int) ([]textgen.GeneratedReview, error) {
	if s.generator == nil {
		return nil, apperrors.ErrTextGenerationFailed.WithError(textgen.ErrNotConfigured)
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sector := ""
	if order.Sector != nil {
		sector = order.Sector.Name
	}

	reviews, err := s.generator.Generate(genCtx, textgen.GenerationRequest{
		CompanyName: order.CompanyName,
		Sector:      sector,
		City:        order.City,
		Tone:        string(order.Tone),
		Language:    order.Language,
		Notes:       order.Notes,
		Quantity:    count,
	})
	if err != nil {
		logger.CtxWithError(ctx, "Review generation failed", err, slog.String("order_id", order.ID))
		return nil, apperrors.ErrTextGenerationFailed.WithError(err)
	}
	if len(reviews) == 0 {
		return nil, apperrors.ErrTextGenerationFailed.WithError(textgen.ErrEmptyResponse)
	}
	return reviews, nil
}

func (s *proposalService) generationResult(db *gorm.DB, orderID string, generated int, deleted int64) (*dto.GenerateProposalsResponse, error) {
	proposals, err := s.proposalRepo.FindByOrder(db, orderID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.GenerateProposalsResponse{
		Generated: generated,
		Deleted:   deleted,
		Proposals: buildProposalResponses(proposals),
	}, nil
}

func (s *proposalService) findOwnedOrder(db *gorm.DB, artisanID, orderID string) (*models.ReviewOrder, error) {
	order, err := s.orderRepo.FindByID(db, orderID)
	if err != nil {
		return nil, handleOrderError(err)
	}
	if order.ArtisanID != artisanID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return order, nil
}

func (s *proposalService) findEditableProposal(db *gorm.DB, artisanID, proposalID string) (*models.ReviewProposal, error) {
	proposal, err := s.proposalRepo.FindByID(db, proposalID)
	if err != nil {
		return nil, handleProposalError(err)
	}
	order, err := s.findOwnedOrder(db, artisanID, proposal.OrderID)
	if err != nil {
		return nil, err
	}
	if !algorithms.ProposalsEditable(order.Status) {
		return nil, apperrors.ErrInvalidOrderStatus
	}
	if proposal.IsPublished() {
		return nil, apperrors.ErrProposalLocked
	}
	return proposal, nil
}

func buildProposalResponses(proposals []models.ReviewProposal) []*dto.ProposalResponse {
	out := make([]*dto.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		out = append(out, buildProposalResponse(&proposals[i]))
	}
	return out
}

func handleProposalError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrProposalNotFound) {
		return apperrors.NewNotFoundError("proposal", "Proposal not found")
	}
	if errors.Is(err, repositories.ErrProposalClaimed) {
		return apperrors.ErrProposalLocked
	}
	return apperrors.InternalError(err)
}
