package database_test

import (
	"testing"

	"achatavis_backend/database"
	"achatavis_backend/internal/auth"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_Idempotent(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, database.Seed(db))

	// правка админа в секторе переживает повторный сид
	require.NoError(t, db.Model(&models.Sector{}).Where("slug = ?", "restaurant").Update("name", "Restauration").Error)

	require.NoError(t, database.Seed(db))

	var rules, sectors int64
	require.NoError(t, db.Model(&models.AntiDetectionRule{}).Count(&rules).Error)
	require.NoError(t, db.Model(&models.Sector{}).Count(&sectors).Error)
	assert.Equal(t, int64(7), rules)
	assert.Equal(t, int64(6), sectors)

	var restaurant models.Sector
	require.NoError(t, db.First(&restaurant, "slug = ?", "restaurant").Error)
	assert.Equal(t, "Restauration", restaurant.Name)
}

func TestSeedFirstAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, database.SeedFirstAdmin(db, "", ""))
	require.NoError(t, database.SeedFirstAdmin(db, "admin@achatavis.fr", "correct-horse"))
	require.NoError(t, database.SeedFirstAdmin(db, "admin@achatavis.fr", "another-password"))

	var admins []models.User
	require.NoError(t, db.Where("role = ?", models.UserRoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.True(t, auth.CheckPasswordHash("correct-horse", admins[0].PasswordHash))
}
