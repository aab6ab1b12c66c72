package algorithms

import (
	"testing"
	"time"

	"achatavis_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func testRules() []models.AntiDetectionRule {
	return []models.AntiDetectionRule{
		{Key: "no_copy_paste", Name: "No copy paste", Severity: models.SeverityHigh,
			Tips: models.EncodeStrings([]string{"Rewrite the proposal in your own words"})},
		{Key: "no_vpn", Name: "No VPN", Severity: models.SeverityCritical},
		{Key: "vary_times", Name: "Vary posting times", Severity: models.SeverityLow},
		{Key: "no_links", Name: "No links", Severity: models.SeverityMedium},
	}
}

func at(now time.Time, daysAgo int) models.BaseModel {
	return models.BaseModel{CreatedAt: now.AddDate(0, 0, -daysAgo)}
}

func TestComputeCompliance_EmptyHistoryIs100(t *testing.T) {
	res := ComputeCompliance(ComplianceInput{Rules: testRules(), Now: time.Now()}, DefaultPolicy())

	assert.Equal(t, 100, res.Score)
	assert.Equal(t, ComplianceBandGood, res.Band)
	assert.Equal(t, 4, res.RulesFollowed)
	assert.Equal(t, 0, res.RulesViolated)
	assert.True(t, res.CanTakeMissions)
	assert.Empty(t, res.Recommendations)
}

func TestComputeCompliance_SeverityWeights(t *testing.T) {
	now := time.Now()
	res := ComputeCompliance(ComplianceInput{
		Rules: testRules(),
		Violations: []models.RuleViolation{
			{BaseModel: at(now, 1), RuleKey: "no_copy_paste"},
			{BaseModel: at(now, 2), RuleKey: "no_copy_paste"}, // то же правило не штрафуется дважды
			{BaseModel: at(now, 3), RuleKey: "vary_times"},
		},
		Now: now,
	}, DefaultPolicy())

	assert.Equal(t, 100-20-5, res.Score)
	assert.Equal(t, 2, res.RulesViolated)
	assert.Equal(t, 2, res.RulesFollowed)
	assert.Equal(t, []string{"no_copy_paste", "vary_times"}, res.ViolatedRules)
	assert.Contains(t, res.Recommendations, "No copy paste: Rewrite the proposal in your own words")
	assert.Equal(t, ComplianceBandWarning, res.Band)
}

func TestComputeCompliance_FloorAtZeroAndWindow(t *testing.T) {
	now := time.Now()
	p := DefaultPolicy()
	p.SeverityPenalties = SeverityPenalties{Low: 30, Medium: 30, High: 30, Critical: 30}

	res := ComputeCompliance(ComplianceInput{
		Rules: testRules(),
		Violations: []models.RuleViolation{
			{BaseModel: at(now, 1), RuleKey: "no_copy_paste"},
			{BaseModel: at(now, 1), RuleKey: "no_vpn"},
			{BaseModel: at(now, 1), RuleKey: "vary_times"},
			{BaseModel: at(now, 1), RuleKey: "no_links"},
			{BaseModel: at(now, 1), RuleKey: "unknown_rule"},
		},
		Now: now,
	}, p)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, ComplianceBandCritical, res.Band)
	assert.False(t, res.CanTakeMissions)

	old := ComputeCompliance(ComplianceInput{
		Rules:      testRules(),
		Violations: []models.RuleViolation{{BaseModel: at(now, 45), RuleKey: "no_vpn"}},
		Now:        now,
	}, DefaultPolicy())
	assert.Equal(t, 100, old.Score)
}

func TestComputeCompliance_SubmissionRollup(t *testing.T) {
	now := time.Now()
	res := ComputeCompliance(ComplianceInput{
		Rules: testRules(),
		Submissions: []models.ReviewSubmission{
			{BaseModel: at(now, 1), Status: models.SubmissionStatusValidated},
			{BaseModel: at(now, 2), Status: models.SubmissionStatusRejected},
			{BaseModel: at(now, 3), Status: models.SubmissionStatusRejected},
			{BaseModel: at(now, 4), Status: models.SubmissionStatusPending},
			{BaseModel: at(now, 60), Status: models.SubmissionStatusValidated},
		},
		Now: now,
	}, DefaultPolicy())

	assert.Equal(t, 1, res.Stats.Validated)
	assert.Equal(t, 2, res.Stats.Rejected)
	assert.Equal(t, 1, res.Stats.Pending)
	assert.Equal(t, 33.3, res.Stats.SuccessRate)
	assert.Len(t, res.Recommendations, 1)
}
