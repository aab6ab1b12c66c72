package services_test

import (
	"errors"
	"testing"
	"time"

	"achatavis_backend/internal/models"
	"achatavis_backend/internal/scraper"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/internal/testutil"
	"achatavis_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mapsURL = "https://www.google.com/maps/contrib/104857600"

func TestAddAccount_ScoresScrapedProfile(t *testing.T) {
	env := newTestEnv(t)
	guide := testutil.CreateGuide(t, env.db)
	env.scraper.Profile = &scraper.Profile{LocalGuideLevel: 6, ReviewCount: 120, AvatarURL: "https://lh3.example.com/a.jpg"}

	resp, err := env.svc.GmailAccountService.AddAccount(env.ctx, env.db, guide.ID, &dto.AddAccountRequest{
		Email:          "  Marie.Dupont@Gmail.com ",
		MapsProfileURL: mapsURL,
		PhoneVerified:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "marie.dupont@gmail.com", resp.Email)
	assert.Equal(t, 94, resp.TrustScoreValue)
	assert.Equal(t, models.TrustLevelPlatinum, resp.TrustLevel)
	assert.True(t, resp.IsVerified)
	assert.Equal(t, 6, resp.LocalGuideLevel)
	require.NotNil(t, resp.Breakdown)
	assert.Equal(t, 15, resp.Breakdown.VerificationBonus)

	var stored models.GmailAccount
	require.NoError(t, env.db.First(&stored, "id = ?", resp.ID).Error)
	assert.Equal(t, 94, stored.TrustScoreValue)
	assert.NotNil(t, stored.LastCheckedAt)
}

func TestAddAccount_UnavailableProfileStillAdds(t *testing.T) {
	env := newTestEnv(t)
	guide := testutil.CreateGuide(t, env.db)
	env.scraper.Err = scraper.ErrUnavailable

	resp, err := env.svc.GmailAccountService.AddAccount(env.ctx, env.db, guide.ID, &dto.AddAccountRequest{
		Email:          "marie.dupont@gmail.com",
		MapsProfileURL: mapsURL,
		PhoneVerified:  true,
	})
	require.NoError(t, err)

	assert.False(t, resp.IsVerified)
	assert.Equal(t, 50, resp.TrustScoreValue)
	assert.Equal(t, models.TrustLevelSilver, resp.TrustLevel)
	assert.Equal(t, 1, env.scraper.Calls)
}

func TestAddAccount_Rejections(t *testing.T) {
	env := newTestEnv(t)
	guide := testutil.CreateGuide(t, env.db)

	_, err := env.svc.GmailAccountService.AddAccount(env.ctx, env.db, guide.ID, &dto.AddAccountRequest{Email: "not-an-email"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidEmail))

	_, err = env.svc.GmailAccountService.AddAccount(env.ctx, env.db, guide.ID, &dto.AddAccountRequest{Email: "jean.martin@gmail.com"})
	require.NoError(t, err)

	_, err = env.svc.GmailAccountService.AddAccount(env.ctx, env.db, guide.ID, &dto.AddAccountRequest{Email: "JEAN.MARTIN@gmail.com"})
	assert.True(t, errors.Is(err, apperrors.ErrEmailAlreadyExists))
}

func TestPreviewAccount_DoesNotPersist(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.GmailAccountService.PreviewAccount(env.ctx, &dto.PreviewAccountRequest{Email: "jean.martin@gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, models.TrustLevelBronze, resp.Trust.TrustLevel)
	assert.False(t, resp.ProfileAvailable)

	var count int64
	require.NoError(t, env.db.Model(&models.GmailAccount{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTrustOverride_SurvivesRecalculation(t *testing.T) {
	env := newTestEnv(t)
	guide := testutil.CreateGuide(t, env.db)
	admin := testutil.CreateUser(t, env.db, models.UserRoleAdmin)

	added, err := env.svc.GmailAccountService.AddAccount(env.ctx, env.db, guide.ID, &dto.AddAccountRequest{Email: "jean.martin@gmail.com"})
	require.NoError(t, err)
	require.Equal(t, models.TrustLevelBronze, added.TrustLevel)

	overridden, err := env.svc.GmailAccountService.SetTrustLevel(env.ctx, env.db, admin.ID, added.ID,
		&dto.SetTrustLevelRequest{TrustLevel: models.TrustLevelGold})
	require.NoError(t, err)
	assert.Equal(t, models.TrustLevelGold, overridden.TrustLevel)
	assert.Equal(t, env.cfg.Policy.DefaultScores.Gold, overridden.TrustScoreValue)

	recalculated, err := env.svc.GmailAccountService.RecalculateTrust(env.ctx, env.db, guide.ID, added.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TrustLevelGold, recalculated.TrustLevel)
	assert.Equal(t, env.cfg.Policy.DefaultScores.Gold, recalculated.TrustScoreValue)

	cleared, err := env.svc.GmailAccountService.ClearTrustOverride(env.ctx, env.db, added.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TrustLevelBronze, cleared.TrustLevel)
	assert.Equal(t, added.TrustScoreValue, cleared.TrustScoreValue)
}

func TestSetTrustLevel_ExplicitScore(t *testing.T) {
	env := newTestEnv(t)
	guide := testutil.CreateGuide(t, env.db)
	account := testutil.CreateGmailAccount(t, env.db, guide.ID, models.TrustLevelBronze, 30)

	score := 61
	resp, err := env.svc.GmailAccountService.SetTrustLevel(env.ctx, env.db, "admin", account.ID,
		&dto.SetTrustLevelRequest{TrustLevel: models.TrustLevelSilver, TrustScoreOverride: &score})
	require.NoError(t, err)
	assert.Equal(t, 61, resp.TrustScoreValue)

	bad := 101
	_, err = env.svc.GmailAccountService.SetTrustLevel(env.ctx, env.db, "admin", account.ID,
		&dto.SetTrustLevelRequest{TrustLevel: models.TrustLevelSilver, TrustScoreOverride: &bad})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTrustScore))
}

func TestRecalculateTrust_OtherGuideForbidden(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateGuide(t, env.db)
	other := testutil.CreateGuide(t, env.db)
	account := testutil.CreateGmailAccount(t, env.db, owner.ID, models.TrustLevelBronze, 30)

	_, err := env.svc.GmailAccountService.RecalculateTrust(env.ctx, env.db, other.ID, account.ID)
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientPermissions))
}

func TestRemoveAccount(t *testing.T) {
	env := newTestEnv(t)
	guide := testutil.CreateGuide(t, env.db)
	artisan := testutil.CreateArtisan(t, env.db)
	sector := testutil.CreateSector(t, env.db, models.DifficultyEasy, models.TrustLevelBronze)

	t.Run("unused account is deleted", func(t *testing.T) {
		account := testutil.CreateGmailAccount(t, env.db, guide.ID, models.TrustLevelBronze, 30)

		resp, err := env.svc.GmailAccountService.RemoveAccount(env.ctx, env.db, guide.ID, account.ID)
		require.NoError(t, err)
		assert.True(t, resp.Deleted)

		var count int64
		require.NoError(t, env.db.Unscoped().Model(&models.GmailAccount{}).Where("id = ?", account.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("account with history is deactivated", func(t *testing.T) {
		account := testutil.CreateGmailAccount(t, env.db, guide.ID, models.TrustLevelBronze, 30)
		order := testutil.CreateOrder(t, env.db, artisan.ID, sector, 2, models.OrderStatusInProgress)
		proposals := testutil.CreateProposals(t, env.db, order.ID, 1)
		testutil.CreateSubmission(t, env.db, guide.ID, order, &proposals[0], account, models.SubmissionStatusValidated)

		resp, err := env.svc.GmailAccountService.RemoveAccount(env.ctx, env.db, guide.ID, account.ID)
		require.NoError(t, err)
		assert.True(t, resp.Deactivated)

		var stored models.GmailAccount
		require.NoError(t, env.db.Unscoped().First(&stored, "id = ?", account.ID).Error)
		assert.False(t, stored.IsActive)
	})
}

func TestRefreshStaleAccounts(t *testing.T) {
	env := newTestEnv(t)
	guide := testutil.CreateGuide(t, env.db)

	stale := testutil.CreateGmailAccount(t, env.db, guide.ID, models.TrustLevelBronze, 30)
	require.NoError(t, env.db.Model(stale).Update("maps_profile_url", mapsURL).Error)

	fresh := testutil.CreateGmailAccount(t, env.db, guide.ID, models.TrustLevelBronze, 30)
	require.NoError(t, env.db.Model(fresh).Updates(map[string]interface{}{
		"maps_profile_url": mapsURL,
		"last_checked_at":  time.Now(),
	}).Error)

	// без ссылки на профиль аккаунт не скрапится
	testutil.CreateGmailAccount(t, env.db, guide.ID, models.TrustLevelBronze, 30)

	env.scraper.Profile = &scraper.Profile{LocalGuideLevel: 8, ReviewCount: 300, AvatarURL: "https://lh3.example.com/b.jpg"}

	refreshed, err := env.svc.GmailAccountService.RefreshStaleAccounts(env.ctx, env.db, 24*time.Hour, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), refreshed)
	assert.Equal(t, 1, env.scraper.Calls)

	var stored models.GmailAccount
	require.NoError(t, env.db.First(&stored, "id = ?", stale.ID).Error)
	assert.Equal(t, 8, stored.LocalGuideLevel)
	assert.Equal(t, 300, stored.TotalReviewsGoogle)
	assert.True(t, stored.IsVerified)
	assert.NotNil(t, stored.LastCheckedAt)
}

func TestRefreshStaleAccounts_ScraperOutageKeepsVerifiedScore(t *testing.T) {
	env := newTestEnv(t)
	guide := testutil.CreateGuide(t, env.db)

	account := testutil.CreateGmailAccount(t, env.db, guide.ID, models.TrustLevelGold, 80)
	require.NoError(t, env.db.Model(account).Updates(map[string]interface{}{
		"maps_profile_url":     mapsURL,
		"is_verified":          true,
		"local_guide_level":    7,
		"total_reviews_google": 250,
	}).Error)

	env.scraper.Err = scraper.ErrUnavailable

	refreshed, err := env.svc.GmailAccountService.RefreshStaleAccounts(env.ctx, env.db, 24*time.Hour, 10)
	require.NoError(t, err)
	assert.Zero(t, refreshed)
	assert.Equal(t, 1, env.scraper.Calls)

	var stored models.GmailAccount
	require.NoError(t, env.db.First(&stored, "id = ?", account.ID).Error)
	assert.Equal(t, models.TrustLevelGold, stored.TrustLevel)
	assert.Equal(t, 80, stored.TrustScoreValue)
	assert.Equal(t, 7, stored.LocalGuideLevel)
	assert.True(t, stored.IsVerified)
	assert.Nil(t, stored.LastCheckedAt)

	// после восстановления скрапера аккаунт обновляется
	env.scraper.Err = nil
	env.scraper.Profile = &scraper.Profile{LocalGuideLevel: 8, ReviewCount: 300}
	refreshed, err = env.svc.GmailAccountService.RefreshStaleAccounts(env.ctx, env.db, 24*time.Hour, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), refreshed)
}
