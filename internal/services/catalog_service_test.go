package services_test

import (
	"testing"

	"achatavis_backend/internal/models"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRules_Seeded(t *testing.T) {
	env := newTestEnv(t)

	rules, err := env.svc.CatalogService.ListRules(env.ctx, env.db)
	require.NoError(t, err)
	require.Len(t, rules, 7)
	assert.Equal(t, "one_review_per_business", rules[0].Key)
	assert.Equal(t, models.SeverityCritical, rules[0].Severity)
	assert.NotEmpty(t, rules[0].DoExamples)
}

func TestSectors_CreateUpdateList(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.CatalogService.CreateSector(env.ctx, env.db, &dto.CreateSectorRequest{
		Slug:               " Garage ",
		Name:               "Garage",
		Difficulty:         models.DifficultyMedium,
		RequiredGmailLevel: models.TrustLevelSilver,
	})
	require.NoError(t, err)
	assert.Equal(t, "garage", created.Slug)
	assert.Equal(t, env.cfg.Policy.MinGuideLevel.Medium, created.MinLocalGuideLevel)
	assert.Equal(t, env.cfg.Policy.DefaultRewardPerReview, created.RewardPerReview)

	_, err = env.svc.CatalogService.CreateSector(env.ctx, env.db, &dto.CreateSectorRequest{
		Slug: "garage", Name: "Garage 2", Difficulty: models.DifficultyEasy, RequiredGmailLevel: models.TrustLevelBronze,
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPCode)

	inactive := false
	updated, err := env.svc.CatalogService.UpdateSector(env.ctx, env.db, created.ID, &dto.UpdateSectorRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	active, err := env.svc.CatalogService.ListSectors(env.ctx, env.db, true)
	require.NoError(t, err)
	all, err := env.svc.CatalogService.ListSectors(env.ctx, env.db, false)
	require.NoError(t, err)
	assert.Len(t, active, 6)
	assert.Len(t, all, 7)
}
