package algorithms

import (
	"testing"

	"achatavis_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTrustScore_StrongAccount(t *testing.T) {
	p := DefaultPolicy()
	res, err := CalculateTrustScore(TrustInput{
		Email:          "marie.dupont@gmail.com",
		MapsProfileURL: "https://www.google.com/maps/contrib/1234567890",
		Profile:        &MapsProfile{LocalGuideLevel: 6, ReviewCount: 80, AvatarURL: "https://lh3.googleusercontent.com/a/x"},
		PhoneVerified:  true,
	}, p)
	require.NoError(t, err)

	assert.Equal(t, 30, res.Breakdown.EmailScore)
	assert.Equal(t, 49, res.Breakdown.MapsProfileScore)
	assert.Equal(t, 15, res.Breakdown.VerificationBonus)
	assert.Equal(t, 0, res.Breakdown.Penalties)
	assert.Equal(t, 94, res.FinalScore)
	assert.Equal(t, models.TrustLevelPlatinum, res.TrustLevel)
	assert.Equal(t, 50, res.MaxReviewsPerMonth)
	assert.Empty(t, res.Restrictions)
}

func TestCalculateTrustScore_WeakAccountIsBlocked(t *testing.T) {
	res, err := CalculateTrustScore(TrustInput{Email: "x12345678@yahoo.fr"}, DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, 15, res.FinalScore)
	assert.Equal(t, models.TrustLevelBlocked, res.TrustLevel)
	assert.Equal(t, []string{"no_missions"}, res.Restrictions)
	assert.Equal(t, 0, res.MaxReviewsPerMonth)
	assert.Contains(t, res.Recommendations, "Verify a phone number on this Google account")
}

func TestCalculateTrustScore_InvalidEmail(t *testing.T) {
	for _, email := range []string{"", "not-an-email", "a@@gmail.com", "@gmail.com"} {
		_, err := CalculateTrustScore(TrustInput{Email: email}, DefaultPolicy())
		assert.ErrorIs(t, err, ErrInvalidEmail, email)
	}
}

func TestCalculateTrustScore_UnknownProfileCountsZero(t *testing.T) {
	res, err := CalculateTrustScore(TrustInput{
		Email:          "jean.martin@gmail.com",
		MapsProfileURL: "https://maps.app.goo.gl/abc",
		Profile:        nil,
	}, DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, 5, res.Breakdown.MapsProfileScore)
	assert.Equal(t, 0, res.Breakdown.Penalties)
	assert.Contains(t, res.Recommendations, "Your Maps profile could not be read, make sure it is public")
}

func TestCalculateTrustScore_PenaltiesAreBounded(t *testing.T) {
	res, err := CalculateTrustScore(TrustInput{
		Email:   "guide.test@gmail.com",
		Profile: &MapsProfile{LocalGuideLevel: 0, ReviewCount: 500},
	}, DefaultPolicy())
	require.NoError(t, err)

	// 10 (без уровня) + 15 (скорость) + 5 (нет аватара)
	assert.Equal(t, 30, res.Breakdown.Penalties)
	assert.GreaterOrEqual(t, res.FinalScore, 0)
}

func TestCalculateTrustScore_ScoreAlwaysInRange(t *testing.T) {
	p := DefaultPolicy()
	for level := 0; level <= 10; level++ {
		for _, reviews := range []int{0, 1, 10, 60, 150, 5000} {
			for _, phone := range []bool{true, false} {
				res, err := CalculateTrustScore(TrustInput{
					Email:          "someone.here@gmail.com",
					MapsProfileURL: "https://maps.google.com/x",
					Profile:        &MapsProfile{LocalGuideLevel: level, ReviewCount: reviews},
					PhoneVerified:  phone,
				}, p)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, res.FinalScore, 0)
				assert.LessOrEqual(t, res.FinalScore, 100)
				assert.Equal(t, LevelForScore(res.FinalScore, p), res.TrustLevel)
			}
		}
	}
}

func TestLevelForScore_Monotonic(t *testing.T) {
	p := DefaultPolicy()
	prev := -1
	for score := 0; score <= 100; score++ {
		rank := LevelForScore(score, p).Rank()
		assert.GreaterOrEqual(t, rank, prev, "score %d", score)
		prev = rank
	}
	assert.Equal(t, models.TrustLevelBlocked, LevelForScore(19, p))
	assert.Equal(t, models.TrustLevelBronze, LevelForScore(20, p))
	assert.Equal(t, models.TrustLevelPlatinum, LevelForScore(100, p))
}

func TestDefaultScoreFor_MapsBackToTier(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 75, DefaultScoreFor(models.TrustLevelGold, p))
	for _, level := range models.TrustLevels {
		assert.Equal(t, level, LevelForScore(DefaultScoreFor(level, p), p))
	}
}

func TestAccountLevelFor(t *testing.T) {
	assert.Equal(t, "novice", AccountLevelFor(0))
	assert.Equal(t, "confirmed", AccountLevelFor(3))
	assert.Equal(t, "expert", AccountLevelFor(7))
	assert.Equal(t, "elite", AccountLevelFor(10))
}
