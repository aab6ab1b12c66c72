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
	"achatavis_backend/internal/scraper"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type GmailAccountService interface {
	PreviewAccount(ctx context.Context, req *dto.PreviewAccountRequest) (*dto.TrustPreviewResponse, error)
	AddAccount(ctx context.Context, db *gorm.DB, guideID string, req *dto.AddAccountRequest) (*dto.GmailAccountResponse, error)
	ListAccounts(ctx context.Context, db *gorm.DB, guideID string) ([]*dto.GmailAccountResponse, error)
	RemoveAccount(ctx context.Context, db *gorm.DB, guideID, accountID string) (*dto.RemoveAccountResponse, error)

	// RecalculateTrust. ownerID == "" - вызов админа, без проверки владельца.
	RecalculateTrust(ctx context.Context, db *gorm.DB, ownerID, accountID string) (*dto.GmailAccountResponse, error)
	RecordActivity(ctx context.Context, db *gorm.DB, accountID string) error
	// RefreshStaleAccounts пересчитывает аккаунты, не проверявшиеся дольше maxAge. Вызывается воркером.
	RefreshStaleAccounts(ctx context.Context, db *gorm.DB, maxAge time.Duration, batch int) (int64, error)

	// Admin operations
	ListAllAccounts(ctx context.Context, db *gorm.DB, criteria dto.GmailAccountSearchCriteria) (*dto.GmailAccountListResponse, error)
	SetTrustLevel(ctx context.Context, db *gorm.DB, adminID, accountID string, req *dto.SetTrustLevelRequest) (*dto.GmailAccountResponse, error)
	ClearTrustOverride(ctx context.Context, db *gorm.DB, accountID string) (*dto.GmailAccountResponse, error)
	SetActive(ctx context.Context, db *gorm.DB, accountID string, active bool) (*dto.GmailAccountResponse, error)
}

type gmailAccountService struct {
	gmailRepo      repositories.GmailAccountRepository
	submissionRepo repositories.SubmissionRepository
	scraper        scraper.Scraper
	policy         algorithms.Policy
	scrapeTimeout  time.Duration
}

func NewGmailAccountService(
	gmailRepo repositories.GmailAccountRepository,
	submissionRepo repositories.SubmissionRepository,
	profileScraper scraper.Scraper,
	policy algorithms.Policy,
	scrapeTimeout time.Duration,
) GmailAccountService {
	if scrapeTimeout <= 0 {
		scrapeTimeout = 15 * time.Second
	}
	return &gmailAccountService{
		gmailRepo:      gmailRepo,
		submissionRepo: submissionRepo,
		scraper:        profileScraper,
		policy:         policy,
		scrapeTimeout:  scrapeTimeout,
	}
}

// ---------------- Guide operations ----------------

func (s *gmailAccountService) PreviewAccount(ctx context.Context, req *dto.PreviewAccountRequest) (*dto.TrustPreviewResponse, error) {
	email := normalizeEmail(req.Email)
	profile := s.scrapeProfile(ctx, req.MapsProfileURL)

	result, err := algorithms.CalculateTrustScore(algorithms.TrustInput{
		Email:          email,
		MapsProfileURL: req.MapsProfileURL,
		Profile:        profile,
		PhoneVerified:  req.PhoneVerified,
	}, s.policy)
	if err != nil {
		return nil, handleGmailAccountError(err)
	}

	resp := &dto.TrustPreviewResponse{
		Email:            email,
		Trust:            result,
		ProfileAvailable: profile != nil,
		AccountLevel:     algorithms.AccountLevelFor(0),
	}
	if profile != nil {
		resp.LocalGuideLevel = profile.LocalGuideLevel
		resp.TotalReviews = profile.ReviewCount
		resp.AccountLevel = algorithms.AccountLevelFor(profile.LocalGuideLevel)
	}
	return resp, nil
}

func (s *gmailAccountService) AddAccount(ctx context.Context, db *gorm.DB, guideID string, req *dto.AddAccountRequest) (*dto.GmailAccountResponse, error) {
	email := normalizeEmail(req.Email)
	if !algorithms.IsValidEmail(email) {
		return nil, apperrors.ErrInvalidEmail
	}

	exists, err := s.gmailRepo.EmailExists(db, email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	// Скрапинг до транзакции: внешний вызов не должен держать соединение
	profile := s.scrapeProfile(ctx, req.MapsProfileURL)

	account := &models.GmailAccount{
		GuideID:        guideID,
		Email:          email,
		MapsProfileURL: strings.TrimSpace(req.MapsProfileURL),
		PhoneVerified:  req.PhoneVerified,
		IsActive:       true,
	}
	result, err := s.applyTrust(account, profile)
	if err != nil {
		return nil, handleGmailAccountError(err)
	}

	if err := s.gmailRepo.Create(db, account); err != nil {
		return nil, handleGmailAccountError(err)
	}

	logger.CtxInfo(ctx, "Gmail account added",
		slog.String("account_id", account.ID),
		slog.String("trust_level", string(account.TrustLevel)),
		slog.Int("trust_score", account.TrustScoreValue),
	)

	resp := buildGmailAccountResponse(account, s.policy)
	resp.Breakdown = &result.Breakdown
	resp.Recommendations = result.Recommendations
	return resp, nil
}

func (s *gmailAccountService) ListAccounts(ctx context.Context, db *gorm.DB, guideID string) ([]*dto.GmailAccountResponse, error) {
	accounts, err := s.gmailRepo.FindByGuide(db, guideID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.GmailAccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, buildGmailAccountResponse(&accounts[i], s.policy))
	}
	return out, nil
}

// RemoveAccount. Аккаунт с историей публикаций только выключается и мягко удаляется.
func (s *gmailAccountService) RemoveAccount(ctx context.Context, db *gorm.DB, guideID, accountID string) (*dto.RemoveAccountResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	account, err := s.gmailRepo.FindByID(tx, accountID)
	if err != nil {
		return nil, handleGmailAccountError(err)
	}
	if account.GuideID != guideID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	used, err := s.submissionRepo.CountByAccount(tx, accountID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.RemoveAccountResponse{}
	if used > 0 {
		if err := s.gmailRepo.SetActive(tx, accountID, false); err != nil {
			return nil, handleGmailAccountError(err)
		}
		if err := s.gmailRepo.SoftDelete(tx, accountID); err != nil {
			return nil, handleGmailAccountError(err)
		}
		resp.Deactivated = true
	} else {
		if err := s.gmailRepo.HardDelete(tx, accountID); err != nil {
			return nil, handleGmailAccountError(err)
		}
		resp.Deleted = true
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

func (s *gmailAccountService) RecalculateTrust(ctx context.Context, db *gorm.DB, ownerID, accountID string) (*dto.GmailAccountResponse, error) {
	account, err := s.gmailRepo.FindByID(db, accountID)
	if err != nil {
		return nil, handleGmailAccountError(err)
	}
	if ownerID != "" && account.GuideID != ownerID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	profile := s.scrapeProfile(ctx, account.MapsProfileURL)
	result, err := s.applyTrust(account, profile)
	if err != nil {
		return nil, handleGmailAccountError(err)
	}

	if err := s.gmailRepo.Update(db, account); err != nil {
		return nil, handleGmailAccountError(err)
	}

	resp := buildGmailAccountResponse(account, s.policy)
	if !account.TrustOverride {
		resp.Breakdown = &result.Breakdown
		resp.Recommendations = result.Recommendations
	}
	return resp, nil
}

func (s *gmailAccountService) RecordActivity(ctx context.Context, db *gorm.DB, accountID string) error {
	if err := s.gmailRepo.RecordActivity(db, accountID, time.Now()); err != nil {
		return handleGmailAccountError(err)
	}
	return nil
}

// ---------------- Admin operations ----------------

func (s *gmailAccountService) ListAllAccounts(ctx context.Context, db *gorm.DB, criteria dto.GmailAccountSearchCriteria) (*dto.GmailAccountListResponse, error) {
	page, pageSize := normalizePage(criteria.Page, criteria.PageSize)
	accounts, total, err := s.gmailRepo.FindWithFilter(db, repositories.GmailAccountFilter{
		GuideID:    criteria.GuideID,
		TrustLevel: models.TrustLevel(criteria.TrustLevel),
		IsActive:   criteria.IsActive,
		Search:     criteria.Search,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.GmailAccountListResponse{
		Accounts: make([]*dto.GmailAccountResponse, 0, len(accounts)),
		ListMeta: dto.ListMeta{Total: total, Page: page, PageSize: pageSize},
	}
	for i := range accounts {
		resp.Accounts = append(resp.Accounts, buildGmailAccountResponse(&accounts[i], s.policy))
	}
	return resp, nil
}

// SetTrustLevel - ручная установка уровня. Без явного балла ставится канонический балл уровня.
func (s *gmailAccountService) SetTrustLevel(ctx context.Context, db *gorm.DB, adminID, accountID string, req *dto.SetTrustLevelRequest) (*dto.GmailAccountResponse, error) {
	if !req.TrustLevel.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"trust_level": "Unknown trust level"})
	}

	score := algorithms.DefaultScoreFor(req.TrustLevel, s.policy)
	if req.TrustScoreOverride != nil {
		if *req.TrustScoreOverride < 0 || *req.TrustScoreOverride > 100 {
			return nil, apperrors.ErrInvalidTrustScore
		}
		score = *req.TrustScoreOverride
	}

	account, err := s.gmailRepo.FindByID(db, accountID)
	if err != nil {
		return nil, handleGmailAccountError(err)
	}

	now := time.Now()
	account.TrustLevel = req.TrustLevel
	account.TrustScoreValue = score
	account.TrustOverride = true
	account.OverriddenBy = &adminID
	account.OverriddenAt = &now

	if err := s.gmailRepo.Update(db, account); err != nil {
		return nil, handleGmailAccountError(err)
	}

	logger.CtxInfo(ctx, "Trust level overridden",
		slog.String("account_id", accountID),
		slog.String("trust_level", string(req.TrustLevel)),
		slog.Int("trust_score", score),
	)
	return buildGmailAccountResponse(account, s.policy), nil
}

func (s *gmailAccountService) ClearTrustOverride(ctx context.Context, db *gorm.DB, accountID string) (*dto.GmailAccountResponse, error) {
	account, err := s.gmailRepo.FindByID(db, accountID)
	if err != nil {
		return nil, handleGmailAccountError(err)
	}

	account.TrustOverride = false
	account.OverriddenBy = nil
	account.OverriddenAt = nil
	if err := s.gmailRepo.Update(db, account); err != nil {
		return nil, handleGmailAccountError(err)
	}

	return s.RecalculateTrust(ctx, db, "", accountID)
}

func (s *gmailAccountService) SetActive(ctx context.Context, db *gorm.DB, accountID string, active bool) (*dto.GmailAccountResponse, error) {
	if err := s.gmailRepo.SetActive(db, accountID, active); err != nil {
		return nil, handleGmailAccountError(err)
	}
	account, err := s.gmailRepo.FindByID(db, accountID)
	if err != nil {
		return nil, handleGmailAccountError(err)
	}
	return buildGmailAccountResponse(account, s.policy), nil
}

// ---------------- Helpers ----------------

func (s *gmailAccountService) RefreshStaleAccounts(ctx context.Context, db *gorm.DB, maxAge time.Duration, batch int) (int64, error) {
	accounts, err := s.gmailRepo.FindStale(db, time.Now().Add(-maxAge), batch)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}

	var refreshed int64
	for i := range accounts {
		if ctx.Err() != nil {
			break
		}
		account := &accounts[i]
		profile := s.scrapeProfile(ctx, account.MapsProfileURL)
		// сбой скрапера не понижает проверенный аккаунт до балла по одному email,
		// аккаунт останется устаревшим и будет проверен на следующем проходе
		if profile == nil && account.IsVerified {
			logger.CtxWarn(ctx, "Trust refresh postponed, profile unavailable", slog.String("account_id", account.ID))
			continue
		}
		if _, err := s.applyTrust(account, profile); err != nil {
			logger.CtxWarn(ctx, "Trust refresh skipped", slog.String("account_id", account.ID), slog.String("error", err.Error()))
			continue
		}
		if err := s.gmailRepo.Update(db, account); err != nil {
			return refreshed, apperrors.InternalError(err)
		}
		refreshed++
	}
	return refreshed, nil
}

// applyTrust обновляет статистику профиля и, если нет ручной установки, балл и уровень
func (s *gmailAccountService) applyTrust(account *models.GmailAccount, profile *algorithms.MapsProfile) (*algorithms.TrustResult, error) {
	result, err := algorithms.CalculateTrustScore(algorithms.TrustInput{
		Email:          account.Email,
		MapsProfileURL: account.MapsProfileURL,
		Profile:        profile,
		PhoneVerified:  account.PhoneVerified,
	}, s.policy)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account.LastCheckedAt = &now
	account.IsVerified = profile != nil
	if profile != nil {
		account.LocalGuideLevel = profile.LocalGuideLevel
		account.TotalReviewsGoogle = profile.ReviewCount
		account.AvatarURL = profile.AvatarURL
	}
	account.AccountLevel = algorithms.AccountLevelFor(account.LocalGuideLevel)

	if !account.TrustOverride {
		account.TrustScoreValue = result.FinalScore
		account.TrustLevel = result.TrustLevel
	}
	return result, nil
}

// scrapeProfile - nil, если ссылки нет или профиль недоступен
func (s *gmailAccountService) scrapeProfile(ctx context.Context, profileURL string) *algorithms.MapsProfile {
	profileURL = strings.TrimSpace(profileURL)
	if profileURL == "" || s.scraper == nil {
		return nil
	}

	scrapeCtx, cancel := context.WithTimeout(ctx, s.scrapeTimeout)
	defer cancel()

	profile, err := s.scraper.ScrapeProfile(scrapeCtx, profileURL)
	if err != nil {
		logger.CtxWarn(ctx, "Maps profile unavailable", slog.String("url", profileURL), slog.String("error", err.Error()))
		return nil
	}
	return &algorithms.MapsProfile{
		LocalGuideLevel: profile.LocalGuideLevel,
		ReviewCount:     profile.ReviewCount,
		AvatarURL:       profile.AvatarURL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func handleGmailAccountError(err error) error {
	if errors.Is(err, algorithms.ErrInvalidEmail) {
		return apperrors.ErrInvalidEmail
	}
	if errors.Is(err, repositories.ErrGmailAccountAlreadyExists) {
		return apperrors.ErrEmailAlreadyExists
	}
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrGmailAccountNotFound) {
		return apperrors.NewNotFoundError("gmail_account", "Gmail account not found")
	}
	return apperrors.InternalError(err)
}
