package repositories

import (
	"errors"
	"time"

	"achatavis_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrRuleNotFound = errors.New("anti-detection rule not found")

type RuleRepository interface {
	// Справочник правил
	FindAll(db *gorm.DB) ([]models.AntiDetectionRule, error)
	FindByKey(db *gorm.DB, key string) (*models.AntiDetectionRule, error)
	Upsert(db *gorm.DB, rule *models.AntiDetectionRule) error

	// Журнал нарушений
	CreateViolation(db *gorm.DB, violation *models.RuleViolation) error
	FindViolationsByGuide(db *gorm.DB, guideID string, since time.Time) ([]models.RuleViolation, error)
}

type RuleRepositoryImpl struct{}

func NewRuleRepository() RuleRepository {
	return &RuleRepositoryImpl{}
}

func (r *RuleRepositoryImpl) FindAll(db *gorm.DB) ([]models.AntiDetectionRule, error) {
	var rules []models.AntiDetectionRule
	err := db.Order("sort_order ASC, key ASC").Find(&rules).Error
	return rules, err
}

func (r *RuleRepositoryImpl) FindByKey(db *gorm.DB, key string) (*models.AntiDetectionRule, error) {
	var rule models.AntiDetectionRule
	if err := db.Where("key = ?", key).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// Upsert - для сида: повторный запуск обновляет тексты правил по ключу
func (r *RuleRepositoryImpl) Upsert(db *gorm.DB, rule *models.AntiDetectionRule) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "category", "severity", "description",
			"do_examples", "dont_examples", "tips", "sort_order", "updated_at",
		}),
	}).Create(rule).Error
}

func (r *RuleRepositoryImpl) CreateViolation(db *gorm.DB, violation *models.RuleViolation) error {
	return db.Create(violation).Error
}

// FindViolationsByGuide. Нулевой since - вся история.
func (r *RuleRepositoryImpl) FindViolationsByGuide(db *gorm.DB, guideID string, since time.Time) ([]models.RuleViolation, error) {
	var violations []models.RuleViolation
	query := db.Where("guide_id = ?", guideID)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	err := query.Order("created_at DESC").Find(&violations).Error
	return violations, err
}
