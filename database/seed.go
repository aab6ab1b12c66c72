package database

import (
	"errors"
	"fmt"

	"achatavis_backend/internal/auth"
	"achatavis_backend/internal/logger"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/repositories"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ruleSeed struct {
	Key      string
	Name     string
	Category string
	Severity models.RuleSeverity
	Desc     string
	Do       []string
	Dont     []string
	Tips     []string
}

var defaultRules = []ruleSeed{
	{
		Key: "one_review_per_business", Name: "One review per business", Category: "account",
		Severity: models.SeverityCritical,
		Desc:     "A Gmail account publishes at most one review for a given establishment.",
		Do:       []string{"Use a different account for each review of the same business"},
		Dont:     []string{"Publish a second review from an account that already reviewed the business"},
		Tips:     []string{"Check the account history on Maps before claiming a mission"},
	},
	{
		Key: "rewrite_proposal", Name: "Rewrite the proposal", Category: "content",
		Severity: models.SeverityHigh,
		Desc:     "Proposals are a starting point. The published text must be rewritten in your own words.",
		Do:       []string{"Change the wording and add a personal detail"},
		Dont:     []string{"Copy and paste the proposal as is"},
		Tips:     []string{"Mention a concrete detail of the visit"},
	},
	{
		Key: "respect_pace", Name: "Respect the publication pace", Category: "timing",
		Severity: models.SeverityMedium,
		Desc:     "Reviews for the same business are spread over time according to the order pace.",
		Do:       []string{"Wait at least a day between two reviews on your accounts"},
		Dont:     []string{"Publish several reviews within minutes"},
		Tips:     []string{"Plan missions over the week"},
	},
	{
		Key: "no_vpn_switching", Name: "No location jumps", Category: "network",
		Severity: models.SeverityHigh,
		Desc:     "Do not switch VPN locations between accounts in the same session.",
		Do:       []string{"Publish from your usual connection"},
		Dont:     []string{"Hop between countries to publish from several accounts"},
		Tips:     []string{"Log out completely between accounts"},
	},
	{
		Key: "natural_rating", Name: "Natural rating", Category: "content",
		Severity: models.SeverityLow,
		Desc:     "Keep the rating of the proposal. Do not inflate or mix ratings on your own.",
		Do:       []string{"Use the rating given in the proposal"},
		Dont:     []string{"Change a 4 star proposal into 5 stars"},
		Tips:     []string{"A few 4 star reviews look more natural than only 5 stars"},
	},
	{
		Key: "active_account", Name: "Keep accounts active", Category: "account",
		Severity: models.SeverityLow,
		Desc:     "Accounts used for reviews also have normal Maps activity.",
		Do:       []string{"Add photos and ratings for places you actually visited"},
		Dont:     []string{"Use an account only for paid missions"},
		Tips:     []string{"Higher Local Guide level improves the trust score"},
	},
	{
		Key: "no_link_in_review", Name: "No links or contact details", Category: "content",
		Severity: models.SeverityMedium,
		Desc:     "Reviews never contain links, phone numbers or mentions of the platform.",
		Do:       []string{"Keep the review about the experience"},
		Dont:     []string{"Mention AchatAvis or paste a URL"},
		Tips:     nil,
	},
}

var defaultSectors = []models.Sector{
	{Slug: "restaurant", Name: "Restaurant", Difficulty: models.DifficultyEasy, AverageValidationRate: 92, RequiredGmailLevel: models.TrustLevelBronze, IsActive: true},
	{Slug: "beauty", Name: "Beauty salon", Difficulty: models.DifficultyEasy, AverageValidationRate: 90, RequiredGmailLevel: models.TrustLevelBronze, IsActive: true},
	{Slug: "plumbing", Name: "Plumbing", Difficulty: models.DifficultyMedium, AverageValidationRate: 78, RequiredGmailLevel: models.TrustLevelSilver, IsActive: true},
	{Slug: "electrician", Name: "Electrician", Difficulty: models.DifficultyMedium, AverageValidationRate: 75, RequiredGmailLevel: models.TrustLevelSilver, IsActive: true},
	{Slug: "locksmith", Name: "Locksmith", Difficulty: models.DifficultyHard, AverageValidationRate: 55, RequiredGmailLevel: models.TrustLevelGold, RewardPerReview: 3, IsActive: true},
	{Slug: "medical", Name: "Medical practice", Difficulty: models.DifficultyHard, AverageValidationRate: 50, RequiredGmailLevel: models.TrustLevelPlatinum, RewardPerReview: 4, IsActive: true},
}

// Seed заполняет справочники. Тексты правил обновляются по ключу,
// секторы только добавляются: после первого запуска ими управляет админ.
func Seed(db *gorm.DB) error {
	rules := repositories.NewRuleRepository()
	for i, r := range defaultRules {
		rule := models.AntiDetectionRule{
			Key:          r.Key,
			Name:         r.Name,
			Category:     r.Category,
			Severity:     r.Severity,
			Description:  r.Desc,
			DoExamples:   models.EncodeStrings(r.Do),
			DontExamples: models.EncodeStrings(r.Dont),
			Tips:         models.EncodeStrings(r.Tips),
			SortOrder:    i,
		}
		if err := rules.Upsert(db, &rule); err != nil {
			return fmt.Errorf("seed rule %s: %w", r.Key, err)
		}
	}

	for _, s := range defaultSectors {
		sector := s
		if err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).Create(&sector).Error; err != nil {
			return fmt.Errorf("seed sector %s: %w", s.Slug, err)
		}
	}

	logger.Info("Reference data seeded", "rules", len(defaultRules), "sectors", len(defaultSectors))
	return nil
}

// SeedFirstAdmin создает администратора из конфига, если его еще нет
func SeedFirstAdmin(db *gorm.DB, adminEmail, adminPassword string) error {
	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	users := repositories.NewUserRepository()
	_, err := users.FindByEmail(tx, adminEmail)
	if err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	adminUser := &models.User{
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}
	if err := users.Create(tx, adminUser); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit admin seed: %w", err)
	}

	logger.Info("First admin created", "email", adminEmail, "id", adminUser.ID)
	return nil
}
