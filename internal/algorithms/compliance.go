package algorithms

import (
	"math"
	"sort"
	"time"

	"achatavis_backend/internal/models"
)

type ComplianceBand string

const (
	ComplianceBandGood     ComplianceBand = "good"
	ComplianceBandWarning  ComplianceBand = "warning"
	ComplianceBandCritical ComplianceBand = "critical"
)

// Порог для общей рекомендации по качеству публикаций
const lowSuccessRate = 70.0

type ComplianceInput struct {
	Rules       []models.AntiDetectionRule
	Violations  []models.RuleViolation
	Submissions []models.ReviewSubmission
	Now         time.Time
}

type SubmissionStats struct {
	Validated   int     `json:"validated"`
	Rejected    int     `json:"rejected"`
	Pending     int     `json:"pending"`
	SuccessRate float64 `json:"success_rate"`
}

type ComplianceResult struct {
	Score           int             `json:"score"`
	Band            ComplianceBand  `json:"band"`
	Color           string          `json:"color"`
	RulesFollowed   int             `json:"rules_followed"`
	RulesViolated   int             `json:"rules_violated"`
	ViolatedRules   []string        `json:"violated_rules"`
	Stats           SubmissionStats `json:"stats"`
	Recommendations []string        `json:"recommendations"`
	CanTakeMissions bool            `json:"can_take_missions"`
}

// ComputeCompliance считает балл комплаенса гида за окно политики.
// Старт со 100, минус штраф за каждое нарушенное в окне правило по его severity, минимум 0.
// Пустая история дает 100.
func ComputeCompliance(in ComplianceInput, p Policy) *ComplianceResult {
	since := in.Now.AddDate(0, 0, -p.ComplianceWindowDays)

	rulesByKey := make(map[string]*models.AntiDetectionRule, len(in.Rules))
	for i := range in.Rules {
		rulesByKey[in.Rules[i].Key] = &in.Rules[i]
	}

	violated := map[string]bool{}
	for _, v := range in.Violations {
		if v.CreatedAt.Before(since) {
			continue
		}
		// нарушения по удаленным из справочника правилам не учитываем
		if _, ok := rulesByKey[v.RuleKey]; ok {
			violated[v.RuleKey] = true
		}
	}

	keys := make([]string, 0, len(violated))
	for key := range violated {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	score := 100
	recs := []string{}
	for _, key := range keys {
		rule := rulesByKey[key]
		score -= p.SeverityPenalties.For(rule.Severity)
		recs = append(recs, ruleRecommendation(rule))
	}
	score = max(score, 0)

	stats := submissionStats(in.Submissions, since)
	if stats.Validated+stats.Rejected > 0 && stats.SuccessRate < lowSuccessRate {
		recs = append(recs, "Too many of your recent reviews were rejected, re-read the anti-detection guide")
	}

	band, color := BandFor(score)
	return &ComplianceResult{
		Score:           score,
		Band:            band,
		Color:           color,
		RulesFollowed:   len(in.Rules) - len(keys),
		RulesViolated:   len(keys),
		ViolatedRules:   keys,
		Stats:           stats,
		Recommendations: recs,
		CanTakeMissions: score >= p.MinComplianceToClaim,
	}
}

// BandFor - трехполосная шкала для отображения
func BandFor(score int) (ComplianceBand, string) {
	switch {
	case score >= 80:
		return ComplianceBandGood, "green"
	case score >= 50:
		return ComplianceBandWarning, "orange"
	default:
		return ComplianceBandCritical, "red"
	}
}

func submissionStats(submissions []models.ReviewSubmission, since time.Time) SubmissionStats {
	var stats SubmissionStats
	for _, s := range submissions {
		if s.CreatedAt.Before(since) {
			continue
		}
		switch s.Status {
		case models.SubmissionStatusValidated:
			stats.Validated++
		case models.SubmissionStatusRejected:
			stats.Rejected++
		default:
			stats.Pending++
		}
	}
	if decided := stats.Validated + stats.Rejected; decided > 0 {
		rate := float64(stats.Validated) / float64(decided) * 100
		stats.SuccessRate = math.Round(rate*10) / 10
	}
	return stats
}

func ruleRecommendation(rule *models.AntiDetectionRule) string {
	if tips := rule.GetTips(); len(tips) > 0 {
		return rule.Name + ": " + tips[0]
	}
	return "Review the rule \"" + rule.Name + "\""
}
