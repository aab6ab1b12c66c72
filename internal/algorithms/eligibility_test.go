package algorithms

import (
	"testing"

	"achatavis_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCheckEligibility(t *testing.T) {
	p := DefaultPolicy()
	silverEasy := &models.Sector{Name: "Plumbing", Difficulty: models.DifficultyEasy, RequiredGmailLevel: models.TrustLevelSilver}
	bronzeHard := &models.Sector{Name: "Legal", Difficulty: models.DifficultyHard, RequiredGmailLevel: models.TrustLevelBronze}

	tests := []struct {
		name     string
		account  models.GmailAccount
		sector   *models.Sector
		eligible bool
		reason   EligibilityReason
	}{
		{
			name:    "bronze account in silver sector",
			account: models.GmailAccount{IsActive: true, TrustLevel: models.TrustLevelBronze, LocalGuideLevel: 5},
			sector:  silverEasy,
			reason:  ReasonTrustLevelTooLow,
		},
		{
			name:    "inactive platinum account",
			account: models.GmailAccount{IsActive: false, TrustLevel: models.TrustLevelPlatinum, LocalGuideLevel: 10},
			sector:  silverEasy,
			reason:  ReasonAccountInactive,
		},
		{
			name:    "guide level too low for hard sector",
			account: models.GmailAccount{IsActive: true, TrustLevel: models.TrustLevelGold, LocalGuideLevel: 2},
			sector:  bronzeHard,
			reason:  ReasonLevelRequirementNotMet,
		},
		{
			name:     "gold account in silver sector",
			account:  models.GmailAccount{IsActive: true, TrustLevel: models.TrustLevelGold},
			sector:   silverEasy,
			eligible: true,
		},
		{
			name:     "exact tier match",
			account:  models.GmailAccount{IsActive: true, TrustLevel: models.TrustLevelSilver},
			sector:   silverEasy,
			eligible: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := CheckEligibility(&tt.account, tt.sector, p)
			assert.Equal(t, tt.eligible, decision.Eligible)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

func TestCheckEligibility_InactiveAlwaysDenied(t *testing.T) {
	p := DefaultPolicy()
	for _, level := range models.TrustLevels {
		for _, required := range models.TrustLevels {
			account := &models.GmailAccount{IsActive: false, TrustLevel: level, LocalGuideLevel: 10}
			sector := &models.Sector{RequiredGmailLevel: required, Difficulty: models.DifficultyEasy}
			assert.False(t, CheckEligibility(account, sector, p).Eligible)
		}
	}
}
