package repositories

import (
	"errors"
	"time"

	"achatavis_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrGmailAccountNotFound      = errors.New("gmail account not found")
	ErrGmailAccountAlreadyExists = errors.New("gmail account already exists")
)

type GmailAccountFilter struct {
	GuideID    string
	TrustLevel models.TrustLevel
	IsActive   *bool
	Search     string
	Page       int
	PageSize   int
}

type GmailAccountRepository interface {
	Create(db *gorm.DB, account *models.GmailAccount) error
	FindByID(db *gorm.DB, id string) (*models.GmailAccount, error)
	FindByIDForUpdate(db *gorm.DB, id string) (*models.GmailAccount, error)
	FindByEmail(db *gorm.DB, email string) (*models.GmailAccount, error)
	EmailExists(db *gorm.DB, email string) (bool, error)
	FindByGuide(db *gorm.DB, guideID string) ([]models.GmailAccount, error)
	FindWithFilter(db *gorm.DB, filter GmailAccountFilter) ([]models.GmailAccount, int64, error)
	FindStale(db *gorm.DB, checkedBefore time.Time, limit int) ([]models.GmailAccount, error)
	Update(db *gorm.DB, account *models.GmailAccount) error
	SetActive(db *gorm.DB, id string, active bool) error
	RecordActivity(db *gorm.DB, id string, at time.Time) error
	SoftDelete(db *gorm.DB, id string) error
	HardDelete(db *gorm.DB, id string) error
}

type GmailAccountRepositoryImpl struct{}

func NewGmailAccountRepository() GmailAccountRepository {
	return &GmailAccountRepositoryImpl{}
}

func (r *GmailAccountRepositoryImpl) Create(db *gorm.DB, account *models.GmailAccount) error {
	exists, err := r.EmailExists(db, account.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrGmailAccountAlreadyExists
	}
	return db.Create(account).Error
}

func (r *GmailAccountRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.GmailAccount, error) {
	var account models.GmailAccount
	if err := db.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGmailAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByIDForUpdate блокирует аккаунт до commit: месячный лимит считается без гонки
func (r *GmailAccountRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.GmailAccount, error) {
	return r.FindByID(db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GmailAccountRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.GmailAccount, error) {
	var account models.GmailAccount
	if err := db.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGmailAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// EmailExists учитывает и мягко удаленные аккаунты: уникальный индекс их тоже видит
func (r *GmailAccountRepositoryImpl) EmailExists(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Unscoped().Model(&models.GmailAccount{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *GmailAccountRepositoryImpl) FindByGuide(db *gorm.DB, guideID string) ([]models.GmailAccount, error) {
	var accounts []models.GmailAccount
	err := db.Where("guide_id = ?", guideID).Order("created_at DESC").Find(&accounts).Error
	return accounts, err
}

func (r *GmailAccountRepositoryImpl) FindWithFilter(db *gorm.DB, filter GmailAccountFilter) ([]models.GmailAccount, int64, error) {
	var accounts []models.GmailAccount
	var total int64

	query := db.Model(&models.GmailAccount{})
	if filter.GuideID != "" {
		query = query.Where("guide_id = ?", filter.GuideID)
	}
	if filter.TrustLevel != "" {
		query = query.Where("trust_level = ?", filter.TrustLevel)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		query = query.Where("email LIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	err := query.Order("created_at DESC").Find(&accounts).Error
	return accounts, total, err
}

// FindStale - активные аккаунты с профилем Maps, которые давно не пересчитывались
func (r *GmailAccountRepositoryImpl) FindStale(db *gorm.DB, checkedBefore time.Time, limit int) ([]models.GmailAccount, error) {
	var accounts []models.GmailAccount
	err := db.Where("is_active = ? AND maps_profile_url <> ''", true).
		Where("last_checked_at IS NULL OR last_checked_at < ?", checkedBefore).
		Order("last_checked_at ASC").
		Limit(limit).
		Find(&accounts).Error
	return accounts, err
}

func (r *GmailAccountRepositoryImpl) Update(db *gorm.DB, account *models.GmailAccount) error {
	result := db.Save(account)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGmailAccountNotFound
	}
	return nil
}

func (r *GmailAccountRepositoryImpl) SetActive(db *gorm.DB, id string, active bool) error {
	// Update по колонке, чтобы false не потерялся как нулевое значение
	result := db.Model(&models.GmailAccount{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGmailAccountNotFound
	}
	return nil
}

func (r *GmailAccountRepositoryImpl) RecordActivity(db *gorm.DB, id string, at time.Time) error {
	result := db.Model(&models.GmailAccount{}).Where("id = ?", id).Updates(map[string]interface{}{
		"reviews_posted": gorm.Expr("reviews_posted + 1"),
		"last_used_at":   at,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGmailAccountNotFound
	}
	return nil
}

func (r *GmailAccountRepositoryImpl) SoftDelete(db *gorm.DB, id string) error {
	result := db.Delete(&models.GmailAccount{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGmailAccountNotFound
	}
	return nil
}

func (r *GmailAccountRepositoryImpl) HardDelete(db *gorm.DB, id string) error {
	result := db.Unscoped().Delete(&models.GmailAccount{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGmailAccountNotFound
	}
	return nil
}
