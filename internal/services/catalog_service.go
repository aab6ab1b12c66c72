package services

import (
	"context"
	"errors"
	"strings"

	"achatavis_backend/internal/algorithms"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/repositories"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// CatalogService - справочники: правила анти-детекции и секторы
type CatalogService interface {
	ListRules(ctx context.Context, db *gorm.DB) ([]*dto.RuleResponse, error)

	ListSectors(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*dto.SectorResponse, error)
	CreateSector(ctx context.Context, db *gorm.DB, req *dto.CreateSectorRequest) (*dto.SectorResponse, error)
	UpdateSector(ctx context.Context, db *gorm.DB, sectorID string, req *dto.UpdateSectorRequest) (*dto.SectorResponse, error)
}

type catalogService struct {
	ruleRepo   repositories.RuleRepository
	sectorRepo repositories.SectorRepository
	policy     algorithms.Policy
}

func NewCatalogService(
	ruleRepo repositories.RuleRepository,
	sectorRepo repositories.SectorRepository,
	policy algorithms.Policy,
) CatalogService {
	return &catalogService{
		ruleRepo:   ruleRepo,
		sectorRepo: sectorRepo,
		policy:     policy,
	}
}

func (s *catalogService) ListRules(ctx context.Context, db *gorm.DB) ([]*dto.RuleResponse, error) {
	rules, err := s.ruleRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.RuleResponse, 0, len(rules))
	for i := range rules {
		out = append(out, buildRuleResponse(&rules[i]))
	}
	return out, nil
}

func (s *catalogService) ListSectors(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*dto.SectorResponse, error) {
	sectors, err := s.sectorRepo.FindAll(db, activeOnly)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.SectorResponse, 0, len(sectors))
	for i := range sectors {
		out = append(out, buildSectorResponse(&sectors[i], s.policy))
	}
	return out, nil
}

func (s *catalogService) CreateSector(ctx context.Context, db *gorm.DB, req *dto.CreateSectorRequest) (*dto.SectorResponse, error) {
	sector := &models.Sector{
		Slug:                  strings.ToLower(strings.TrimSpace(req.Slug)),
		Name:                  strings.TrimSpace(req.Name),
		Difficulty:            req.Difficulty,
		AverageValidationRate: req.AverageValidationRate,
		RequiredGmailLevel:    req.RequiredGmailLevel,
		RewardPerReview:       req.RewardPerReview,
		IsActive:              true,
	}

	if err := s.sectorRepo.Create(db, sector); err != nil {
		return nil, handleSectorError(err)
	}
	return buildSectorResponse(sector, s.policy), nil
}

func (s *catalogService) UpdateSector(ctx context.Context, db *gorm.DB, sectorID string, req *dto.UpdateSectorRequest) (*dto.SectorResponse, error) {
	sector, err := s.sectorRepo.FindByID(db, sectorID)
	if err != nil {
		return nil, handleSectorError(err)
	}

	if req.Name != nil {
		sector.Name = strings.TrimSpace(*req.Name)
	}
	if req.Difficulty != nil {
		sector.Difficulty = *req.Difficulty
	}
	if req.AverageValidationRate != nil {
		sector.AverageValidationRate = *req.AverageValidationRate
	}
	if req.RequiredGmailLevel != nil {
		sector.RequiredGmailLevel = *req.RequiredGmailLevel
	}
	if req.RewardPerReview != nil {
		sector.RewardPerReview = *req.RewardPerReview
	}
	if req.IsActive != nil {
		sector.IsActive = *req.IsActive
	}

	if err := s.sectorRepo.Update(db, sector); err != nil {
		return nil, handleSectorError(err)
	}
	return buildSectorResponse(sector, s.policy), nil
}

func handleSectorError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrSectorNotFound) {
		return apperrors.NewNotFoundError("sector", "Sector not found")
	}
	if errors.Is(err, repositories.ErrSectorAlreadyExists) {
		return apperrors.NewConflictError("sector", "Sector slug already exists")
	}
	return apperrors.InternalError(err)
}
