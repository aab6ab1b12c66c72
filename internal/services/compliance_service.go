package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"achatavis_backend/internal/algorithms"
	"achatavis_backend/internal/logger"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/repositories"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ComplianceService interface {
	// GetSnapshot собирает комплаенс гида на текущий момент
	GetSnapshot(ctx context.Context, db *gorm.DB, guideID string) (*dto.ComplianceSnapshot, error)
	// Evaluate - только расчет, для проверки перед взятием миссии
	Evaluate(ctx context.Context, db *gorm.DB, guideID string) (*algorithms.ComplianceResult, error)

	// Журнал нарушений
	RecordViolation(ctx context.Context, db *gorm.DB, recordedBy, guideID string, req *dto.RecordViolationRequest) (*dto.ViolationResponse, error)
	ListViolations(ctx context.Context, db *gorm.DB, guideID string) ([]dto.ViolationResponse, error)

	// Сертификация
	GetQuiz() *dto.QuizResponse
	SubmitCertification(ctx context.Context, db *gorm.DB, guideID string, req *dto.SubmitCertificationRequest) (*dto.CertificationResponse, error)
}

type complianceService struct {
	ruleRepo       repositories.RuleRepository
	submissionRepo repositories.SubmissionRepository
	certRepo       repositories.CertificationRepository
	userRepo       repositories.UserRepository
	policy         algorithms.Policy
	now            func() time.Time
}

func NewComplianceService(
	ruleRepo repositories.RuleRepository,
	submissionRepo repositories.SubmissionRepository,
	certRepo repositories.CertificationRepository,
	userRepo repositories.UserRepository,
	policy algorithms.Policy,
) ComplianceService {
	return &complianceService{
		ruleRepo:       ruleRepo,
		submissionRepo: submissionRepo,
		certRepo:       certRepo,
		userRepo:       userRepo,
		policy:         policy,
		now:            time.Now,
	}
}

// ---------------- Snapshot ----------------

func (s *complianceService) GetSnapshot(ctx context.Context, db *gorm.DB, guideID string) (*dto.ComplianceSnapshot, error) {
	if err := s.ensureGuide(db, guideID); err != nil {
		return nil, err
	}

	now := s.now()
	rules, violations, result, err := s.evaluate(db, guideID, now)
	if err != nil {
		return nil, err
	}

	cert, err := s.certificationState(db, guideID)
	if err != nil {
		return nil, err
	}

	return &dto.ComplianceSnapshot{
		GuideID:       guideID,
		WindowDays:    s.policy.ComplianceWindowDays,
		Compliance:    result,
		Certification: *cert,
		Violations:    buildViolationResponses(violations, rules),
		GeneratedAt:   now,
	}, nil
}

func (s *complianceService) Evaluate(ctx context.Context, db *gorm.DB, guideID string) (*algorithms.ComplianceResult, error) {
	_, _, result, err := s.evaluate(db, guideID, s.now())
	return result, err
}

func (s *complianceService) evaluate(db *gorm.DB, guideID string, now time.Time) ([]models.AntiDetectionRule, []models.RuleViolation, *algorithms.ComplianceResult, error) {
	since := now.AddDate(0, 0, -s.policy.ComplianceWindowDays)

	rules, err := s.ruleRepo.FindAll(db)
	if err != nil {
		return nil, nil, nil, apperrors.InternalError(err)
	}
	violations, err := s.ruleRepo.FindViolationsByGuide(db, guideID, since)
	if err != nil {
		return nil, nil, nil, apperrors.InternalError(err)
	}
	submissions, err := s.submissionRepo.FindByGuideSince(db, guideID, since)
	if err != nil {
		return nil, nil, nil, apperrors.InternalError(err)
	}

	result := algorithms.ComputeCompliance(algorithms.ComplianceInput{
		Rules:       rules,
		Violations:  violations,
		Submissions: submissions,
		Now:         now,
	}, s.policy)
	return rules, violations, result, nil
}

func (s *complianceService) certificationState(db *gorm.DB, guideID string) (*dto.CertificationState, error) {
	state := &dto.CertificationState{}

	profile, err := s.userRepo.FindGuideProfile(db, guideID)
	switch {
	case err == nil:
		state.Passed = profile.CertificationPassed
		state.Score = profile.CertificationScore
		state.CertifiedAt = profile.CertifiedAt
	case errors.Is(err, repositories.ErrGuideProfileNotFound):
	default:
		return nil, apperrors.InternalError(err)
	}

	attempts, err := s.certRepo.FindAttemptsByGuide(db, guideID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	state.Attempts = len(attempts)
	return state, nil
}

// ---------------- Violations ----------------

func (s *complianceService) RecordViolation(ctx context.Context, db *gorm.DB, recordedBy, guideID string, req *dto.RecordViolationRequest) (*dto.ViolationResponse, error) {
	if err := s.ensureGuide(db, guideID); err != nil {
		return nil, err
	}

	rule, err := s.ruleRepo.FindByKey(db, req.RuleKey)
	if err != nil {
		return nil, handleComplianceError(err)
	}

	violation := &models.RuleViolation{
		GuideID:      guideID,
		RuleKey:      rule.Key,
		SubmissionID: req.SubmissionID,
		Note:         req.Note,
		RecordedBy:   recordedBy,
	}
	if err := s.ruleRepo.CreateViolation(db, violation); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Rule violation recorded",
		slog.String("guide_id", guideID),
		slog.String("rule_key", rule.Key),
	)

	resp := buildViolationResponses([]models.RuleViolation{*violation}, []models.AntiDetectionRule{*rule})
	return &resp[0], nil
}

func (s *complianceService) ListViolations(ctx context.Context, db *gorm.DB, guideID string) ([]dto.ViolationResponse, error) {
	if err := s.ensureGuide(db, guideID); err != nil {
		return nil, err
	}

	violations, err := s.ruleRepo.FindViolationsByGuide(db, guideID, time.Time{})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	rules, err := s.ruleRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildViolationResponses(violations, rules), nil
}

// ---------------- Certification ----------------

func (s *complianceService) GetQuiz() *dto.QuizResponse {
	return &dto.QuizResponse{
		Questions: algorithms.Quiz(),
		PassMark:  s.policy.CertificationPassMark,
	}
}

func (s *complianceService) SubmitCertification(ctx context.Context, db *gorm.DB, guideID string, req *dto.SubmitCertificationRequest) (*dto.CertificationResponse, error) {
	result, err := algorithms.GradeCertification(req.Answers, s.policy.CertificationPassMark)
	if err != nil {
		return nil, handleComplianceError(err)
	}

	answers, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	attempt := &models.CertificationAttempt{
		GuideID: guideID,
		Score:   result.Score,
		Correct: result.Correct,
		Total:   result.Total,
		Passed:  result.Passed,
		Answers: datatypes.JSON(answers),
	}
	if err := s.certRepo.CreateAttempt(tx, attempt); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Профиль хранит последнюю попытку; дата сертификации только у сдавших
	profile := &models.GuideProfile{
		UserID:              guideID,
		CertificationPassed: result.Passed,
		CertificationScore:  result.Score,
	}
	if result.Passed {
		now := s.now()
		profile.CertifiedAt = &now
	}
	if err := s.userRepo.UpsertGuideProfile(tx, profile); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Certification graded",
		slog.Int("score", result.Score),
		slog.Bool("passed", result.Passed),
	)

	return &dto.CertificationResponse{CertificationResult: *result, AttemptID: attempt.ID}, nil
}

// ---------------- Helpers ----------------

func (s *complianceService) ensureGuide(db *gorm.DB, guideID string) error {
	user, err := s.userRepo.FindByID(db, guideID)
	if err != nil {
		return handleComplianceError(err)
	}
	if user.Role != models.UserRoleGuide {
		return apperrors.NewNotFoundError("guide", "Guide not found")
	}
	return nil
}

func buildViolationResponses(violations []models.RuleViolation, rules []models.AntiDetectionRule) []dto.ViolationResponse {
	names := make(map[string]string, len(rules))
	for _, r := range rules {
		names[r.Key] = r.Name
	}

	out := make([]dto.ViolationResponse, 0, len(violations))
	for _, v := range violations {
		out = append(out, dto.ViolationResponse{
			ID:           v.ID,
			RuleKey:      v.RuleKey,
			RuleName:     names[v.RuleKey],
			SubmissionID: v.SubmissionID,
			Note:         v.Note,
			CreatedAt:    v.CreatedAt,
		})
	}
	return out
}

func handleComplianceError(err error) error {
	if errors.Is(err, algorithms.ErrUnknownQuestion) {
		return apperrors.ErrUnknownQuestion
	}
	if errors.Is(err, repositories.ErrRuleNotFound) {
		return apperrors.NewNotFoundError("rule", "Anti-detection rule not found")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.NewNotFoundError("guide", "Guide not found")
	}
	return apperrors.InternalError(err)
}
