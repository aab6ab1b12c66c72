package services

import (
	"context"
	"errors"
	"sort"

	"achatavis_backend/internal/algorithms"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/repositories"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// MissionService - заказы глазами гида и проверка допуска аккаунта к сектору
type MissionService interface {
	ListMissions(ctx context.Context, db *gorm.DB, guideID string) ([]*dto.MissionResponse, error)
	CheckMissionEligibility(ctx context.Context, db *gorm.DB, guideID, orderID, accountID string) (*dto.EligibilityResponse, error)
}

type missionService struct {
	orderRepo    repositories.OrderRepository
	proposalRepo repositories.ProposalRepository
	gmailRepo    repositories.GmailAccountRepository
	policy       algorithms.Policy
}

func NewMissionService(
	orderRepo repositories.OrderRepository,
	proposalRepo repositories.ProposalRepository,
	gmailRepo repositories.GmailAccountRepository,
	policy algorithms.Policy,
) MissionService {
	return &missionService{
		orderRepo:    orderRepo,
		proposalRepo: proposalRepo,
		gmailRepo:    gmailRepo,
		policy:       policy,
	}
}

// ListMissions - открытые заказы со свободными предложениями, лучшие совпадения сверху
func (s *missionService) ListMissions(ctx context.Context, db *gorm.DB, guideID string) ([]*dto.MissionResponse, error) {
	orders, err := s.orderRepo.FindOpenForClaims(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	accounts, err := s.gmailRepo.FindByGuide(db, guideID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	missions := make([]*dto.MissionResponse, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		if order.Sector == nil {
			continue
		}

		open, err := s.proposalRepo.FindUnclaimedByOrder(db, order.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if len(open) == 0 {
			continue
		}

		mission := &dto.MissionResponse{
			OrderID:       order.ID,
			CompanyName:   order.CompanyName,
			City:          order.City,
			Sector:        buildSectorResponse(order.Sector, s.policy),
			Tone:          order.Tone,
			Language:      order.Language,
			OpenProposals: int64(len(open)),
			Reward:        rewardFor(order.Sector, s.policy),
			ProposalIDs:   make([]string, 0, len(open)),
		}
		for _, p := range open {
			mission.ProposalIDs = append(mission.ProposalIDs, p.ID)
		}

		// Лучший из допущенных аккаунтов гида задает оценку совпадения
		for j := range accounts {
			account := &accounts[j]
			if !algorithms.CheckEligibility(account, order.Sector, s.policy).Eligible {
				continue
			}
			mission.EligibleAny = true
			score, reasons := algorithms.CalculateMissionMatch(order, order.Sector, account, len(open))
			if score > mission.MatchScore {
				mission.MatchScore = score
				mission.MatchReasons = reasons
			}
		}
		missions = append(missions, mission)
	}

	sort.SliceStable(missions, func(i, j int) bool {
		if missions[i].EligibleAny != missions[j].EligibleAny {
			return missions[i].EligibleAny
		}
		return missions[i].MatchScore > missions[j].MatchScore
	})
	return missions, nil
}

// CheckMissionEligibility. Отказ - это ответ 200 с eligible=false и кодом причины.
func (s *missionService) CheckMissionEligibility(ctx context.Context, db *gorm.DB, guideID, orderID, accountID string) (*dto.EligibilityResponse, error) {
	order, err := s.orderRepo.FindByID(db, orderID)
	if err != nil {
		return nil, handleMissionError(err)
	}
	if order.Sector == nil {
		return nil, apperrors.ErrInvalidOperation("order", "Order has no sector")
	}

	account, err := s.gmailRepo.FindByID(db, accountID)
	if err != nil {
		return nil, handleMissionError(err)
	}
	if account.GuideID != guideID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	decision := algorithms.CheckEligibility(account, order.Sector, s.policy)
	return &dto.EligibilityResponse{
		OrderID:        order.ID,
		GmailAccountID: account.ID,
		Eligible:       decision.Eligible,
		Reason:         string(decision.Reason),
		Message:        decision.Message,
	}, nil
}

// eligibilityError - отказ в виде ошибки для операций, которые должны остановиться
func eligibilityError(decision algorithms.EligibilityDecision) error {
	return apperrors.ErrEligibilityDenied.WithDetails(map[string]string{
		"reason":  string(decision.Reason),
		"message": decision.Message,
	})
}

func isOpenOrder(order *models.ReviewOrder) bool {
	return algorithms.IsOpenForClaims(order.Status)
}

func handleMissionError(err error) error {
	if errors.Is(err, repositories.ErrOrderNotFound) {
		return apperrors.NewNotFoundError("order", "Order not found")
	}
	if errors.Is(err, repositories.ErrGmailAccountNotFound) {
		return apperrors.NewNotFoundError("gmail_account", "Gmail account not found")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}
