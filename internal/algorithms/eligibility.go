package algorithms

import "achatavis_backend/internal/models"

type EligibilityReason string

const (
	ReasonAccountInactive        EligibilityReason = "ACCOUNT_INACTIVE"
	ReasonTrustLevelTooLow       EligibilityReason = "TRUST_LEVEL_TOO_LOW"
	ReasonLevelRequirementNotMet EligibilityReason = "LEVEL_REQUIREMENT_NOT_MET"
)

// EligibilityDecision - отказ здесь не ошибка, а нормальный результат с кодом причины
type EligibilityDecision struct {
	Eligible bool              `json:"eligible"`
	Reason   EligibilityReason `json:"reason,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// CheckEligibility решает, может ли аккаунт взять миссию в секторе.
// Ничего не кэширует: уровень доверия может поменяться между попытками.
func CheckEligibility(account *models.GmailAccount, sector *models.Sector, p Policy) EligibilityDecision {
	if !account.IsActive {
		return EligibilityDecision{
			Reason:  ReasonAccountInactive,
			Message: "This Gmail account is deactivated",
		}
	}

	if account.TrustLevel.Rank() < sector.RequiredGmailLevel.Rank() {
		return EligibilityDecision{
			Reason:  ReasonTrustLevelTooLow,
			Message: "Sector " + sector.Name + " requires trust level " + string(sector.RequiredGmailLevel),
		}
	}

	if account.LocalGuideLevel < p.MinGuideLevel.For(sector.Difficulty) {
		return EligibilityDecision{
			Reason:  ReasonLevelRequirementNotMet,
			Message: "Local Guide level is too low for a " + string(sector.Difficulty) + " sector",
		}
	}

	return EligibilityDecision{Eligible: true}
}
