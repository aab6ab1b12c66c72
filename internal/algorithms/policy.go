package algorithms

import "achatavis_backend/internal/models"

// TierValues - значение на каждый уровень доверия.
// В TrustThresholds поле Blocked не используется: BLOCKED - все, что ниже Bronze.
type TierValues struct {
	Blocked  int `yaml:"blocked"`
	Bronze   int `yaml:"bronze"`
	Silver   int `yaml:"silver"`
	Gold     int `yaml:"gold"`
	Platinum int `yaml:"platinum"`
}

func (v TierValues) For(level models.TrustLevel) int {
	switch level {
	case models.TrustLevelBronze:
		return v.Bronze
	case models.TrustLevelSilver:
		return v.Silver
	case models.TrustLevelGold:
		return v.Gold
	case models.TrustLevelPlatinum:
		return v.Platinum
	default:
		return v.Blocked
	}
}

// SeverityPenalties - штраф комплаенса за одно нарушенное правило
type SeverityPenalties struct {
	Low      int `yaml:"low"`
	Medium   int `yaml:"medium"`
	High     int `yaml:"high"`
	Critical int `yaml:"critical"`
}

func (p SeverityPenalties) For(severity models.RuleSeverity) int {
	switch severity {
	case models.SeverityLow:
		return p.Low
	case models.SeverityHigh:
		return p.High
	case models.SeverityCritical:
		return p.Critical
	default:
		return p.Medium
	}
}

// DifficultyLevels - минимальный уровень Local Guide для сложности сектора
type DifficultyLevels struct {
	Easy   int `yaml:"easy"`
	Medium int `yaml:"medium"`
	Hard   int `yaml:"hard"`
}

func (d DifficultyLevels) For(difficulty models.Difficulty) int {
	switch difficulty {
	case models.DifficultyMedium:
		return d.Medium
	case models.DifficultyHard:
		return d.Hard
	default:
		return d.Easy
	}
}

// Policy - все настраиваемые бизнес-константы (секция policy в config.yaml)
type Policy struct {
	TrustThresholds        TierValues        `yaml:"trust_thresholds"`
	DefaultScores          TierValues        `yaml:"default_scores"`
	MaxReviewsPerMonth     TierValues        `yaml:"max_reviews_per_month"`
	SeverityPenalties      SeverityPenalties `yaml:"severity_penalties"`
	CertificationPassMark  int               `yaml:"certification_pass_mark"`
	ComplianceWindowDays   int               `yaml:"compliance_window_days"`
	MinComplianceToClaim   int               `yaml:"min_compliance_to_claim"`
	MinGuideLevel          DifficultyLevels  `yaml:"min_guide_level"`
	DefaultRewardPerReview float64           `yaml:"default_reward_per_review"`
}

// DefaultPolicy - значения по умолчанию. Конфиг накладывается поверх них,
// поэтому явный 0 в config.yaml остается нулем.
func DefaultPolicy() Policy {
	return Policy{
		TrustThresholds:        TierValues{Bronze: 20, Silver: 50, Gold: 75, Platinum: 90},
		DefaultScores:          TierValues{Blocked: 0, Bronze: 25, Silver: 50, Gold: 75, Platinum: 90},
		MaxReviewsPerMonth:     TierValues{Blocked: 0, Bronze: 5, Silver: 15, Gold: 30, Platinum: 50},
		SeverityPenalties:      SeverityPenalties{Low: 5, Medium: 10, High: 20, Critical: 35},
		CertificationPassMark:  80,
		ComplianceWindowDays:   30,
		MinComplianceToClaim:   40,
		MinGuideLevel:          DifficultyLevels{Easy: 0, Medium: 2, Hard: 4},
		DefaultRewardPerReview: 1.5,
	}
}
