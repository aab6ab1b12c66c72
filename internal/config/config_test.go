package config

import (
	"os"
	"path/filepath"
	"testing"

	"achatavis_backend/internal/algorithms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_PolicyKeepsExplicitZeros(t *testing.T) {
	path := writeConfig(t, `
policy:
  min_compliance_to_claim: 0
  certification_pass_mark: 0
  default_reward_per_review: 0
  min_guide_level: { easy: 0, medium: 0, hard: 0 }
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Zero(t, cfg.Policy.MinComplianceToClaim)
	assert.Zero(t, cfg.Policy.CertificationPassMark)
	assert.Zero(t, cfg.Policy.DefaultRewardPerReview)
	assert.Equal(t, algorithms.DifficultyLevels{}, cfg.Policy.MinGuideLevel)

	// незаданные ключи остаются по умолчанию
	def := algorithms.DefaultPolicy()
	assert.Equal(t, def.TrustThresholds, cfg.Policy.TrustThresholds)
	assert.Equal(t, def.SeverityPenalties, cfg.Policy.SeverityPenalties)
	assert.Equal(t, def.ComplianceWindowDays, cfg.Policy.ComplianceWindowDays)
}

func TestLoadFile_PartialPolicySection(t *testing.T) {
	path := writeConfig(t, `
policy:
  trust_thresholds: { bronze: 10, silver: 40, gold: 70, platinum: 95 }
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, algorithms.TierValues{Bronze: 10, Silver: 40, Gold: 70, Platinum: 95}, cfg.Policy.TrustThresholds)
	assert.Equal(t, 40, cfg.Policy.MinComplianceToClaim)
	assert.Equal(t, 1.5, cfg.Policy.DefaultRewardPerReview)
	assert.Len(t, cfg.Payment.Plans, 3)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, algorithms.DefaultPolicy(), cfg.Policy)
	assert.Equal(t, "development", cfg.Server.Env)
}
