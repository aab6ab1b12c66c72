package repositories

import (
	"achatavis_backend/internal/models"

	"gorm.io/gorm"
)

type CertificationRepository interface {
	CreateAttempt(db *gorm.DB, attempt *models.CertificationAttempt) error
	FindAttemptsByGuide(db *gorm.DB, guideID string) ([]models.CertificationAttempt, error)
}

type CertificationRepositoryImpl struct{}

func NewCertificationRepository() CertificationRepository {
	return &CertificationRepositoryImpl{}
}

func (r *CertificationRepositoryImpl) CreateAttempt(db *gorm.DB, attempt *models.CertificationAttempt) error {
	return db.Create(attempt).Error
}

func (r *CertificationRepositoryImpl) FindAttemptsByGuide(db *gorm.DB, guideID string) ([]models.CertificationAttempt, error) {
	var attempts []models.CertificationAttempt
	err := db.Where("guide_id = ?", guideID).Order("created_at DESC").Find(&attempts).Error
	return attempts, err
}
