package database

import (
	"fmt"

	"achatavis_backend/internal/logger"
	"achatavis_backend/internal/models"

	"gorm.io/gorm"
)

// Models - все таблицы приложения в порядке миграции
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.ArtisanProfile{},
		&models.GuideProfile{},
		&models.GmailAccount{},
		&models.AntiDetectionRule{},
		&models.RuleViolation{},
		&models.Sector{},
		&models.ReviewOrder{},
		&models.ReviewProposal{},
		&models.ReviewSubmission{},
		&models.PaymentSession{},
		&models.PaymentPack{},
		&models.CertificationAttempt{},
	}
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("AutoMigrate completed", "tables", len(Models()))
	return nil
}
