package services_test

import (
	"errors"
	"testing"

	"achatavis_backend/internal/algorithms"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/internal/testutil"
	"achatavis_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// answersWithMistakes - ключ теста, первые mistakes ответов неверные
func answersWithMistakes(mistakes int) map[string]int {
	key := []struct {
		id     string
		answer int
	}{
		{"q1", 1}, {"q2", 1}, {"q3", 0}, {"q4", 1}, {"q5", 1},
		{"q6", 1}, {"q7", 1}, {"q8", 0}, {"q9", 1}, {"q10", 0},
	}
	answers := make(map[string]int, len(key))
	for i, k := range key {
		answers[k.id] = k.answer
		if i < mistakes {
			answers[k.id] = 2
		}
	}
	return answers
}

func TestComplianceSnapshot_CleanHistory(t *testing.T) {
	env := newTestEnv(t)
	guide := testutil.CreateGuide(t, env.db)

	snapshot, err := env.svc.ComplianceService.GetSnapshot(env.ctx, env.db, guide.ID)
	require.NoError(t, err)

	assert.Equal(t, 100, snapshot.Compliance.Score)
	assert.Equal(t, algorithms.ComplianceBandGood, snapshot.Compliance.Band)
	assert.Equal(t, 7, snapshot.Compliance.RulesFollowed)
	assert.True(t, snapshot.Compliance.CanTakeMissions)
	assert.False(t, snapshot.Certification.Passed)
	assert.Zero(t, snapshot.Certification.Attempts)
	assert.Empty(t, snapshot.Violations)
}

func TestComplianceSnapshot_ViolationsCountOncePerRule(t *testing.T) {
	env := newTestEnv(t)
	guide := testutil.CreateGuide(t, env.db)
	admin := testutil.CreateUser(t, env.db, models.UserRoleAdmin)

	for _, key := range []string{"one_review_per_business", "one_review_per_business", "natural_rating"} {
		_, err := env.svc.ComplianceService.RecordViolation(env.ctx, env.db, admin.ID, guide.ID, &dto.RecordViolationRequest{RuleKey: key})
		require.NoError(t, err)
	}

	snapshot, err := env.svc.ComplianceService.GetSnapshot(env.ctx, env.db, guide.ID)
	require.NoError(t, err)

	assert.Equal(t, 100-35-5, snapshot.Compliance.Score)
	assert.Equal(t, algorithms.ComplianceBandWarning, snapshot.Compliance.Band)
	assert.Equal(t, 2, snapshot.Compliance.RulesViolated)
	assert.Len(t, snapshot.Violations, 3)

	names := make([]string, 0, len(snapshot.Violations))
	for _, v := range snapshot.Violations {
		names = append(names, v.RuleName)
	}
	assert.Contains(t, names, "One review per business")
}

func TestRecordViolation_Errors(t *testing.T) {
	env := newTestEnv(t)
	guide := testutil.CreateGuide(t, env.db)
	artisan := testutil.CreateArtisan(t, env.db)

	_, err := env.svc.ComplianceService.RecordViolation(env.ctx, env.db, "admin", guide.ID, &dto.RecordViolationRequest{RuleKey: "no_such_rule"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPCode)

	_, err = env.svc.ComplianceService.RecordViolation(env.ctx, env.db, "admin", artisan.ID, &dto.RecordViolationRequest{RuleKey: "natural_rating"})
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestSubmitCertification(t *testing.T) {
	env := newTestEnv(t)
	guide := testutil.CreateGuide(t, env.db)

	failed, err := env.svc.ComplianceService.SubmitCertification(env.ctx, env.db, guide.ID,
		&dto.SubmitCertificationRequest{Answers: answersWithMistakes(3)})
	require.NoError(t, err)
	assert.Equal(t, 70, failed.Score)
	assert.False(t, failed.Passed)

	passed, err := env.svc.ComplianceService.SubmitCertification(env.ctx, env.db, guide.ID,
		&dto.SubmitCertificationRequest{Answers: answersWithMistakes(2)})
	require.NoError(t, err)
	assert.Equal(t, 80, passed.Score)
	assert.Equal(t, 8, passed.Correct)
	assert.True(t, passed.Passed)
	assert.NotEmpty(t, passed.AttemptID)

	snapshot, err := env.svc.ComplianceService.GetSnapshot(env.ctx, env.db, guide.ID)
	require.NoError(t, err)
	assert.True(t, snapshot.Certification.Passed)
	assert.Equal(t, 80, snapshot.Certification.Score)
	assert.NotNil(t, snapshot.Certification.CertifiedAt)
	assert.Equal(t, 2, snapshot.Certification.Attempts)
}

func TestSubmitCertification_UnknownQuestion(t *testing.T) {
	env := newTestEnv(t)
	guide := testutil.CreateGuide(t, env.db)

	_, err := env.svc.ComplianceService.SubmitCertification(env.ctx, env.db, guide.ID,
		&dto.SubmitCertificationRequest{Answers: map[string]int{"q42": 0}})
	assert.True(t, errors.Is(err, apperrors.ErrUnknownQuestion))
}

func TestGetQuiz_HidesAnswers(t *testing.T) {
	env := newTestEnv(t)

	quiz := env.svc.ComplianceService.GetQuiz()
	assert.Len(t, quiz.Questions, 10)
	assert.Equal(t, env.cfg.Policy.CertificationPassMark, quiz.PassMark)
}
