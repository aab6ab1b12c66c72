package repositories

import (
	"errors"
	"time"

	"achatavis_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSubmissionNotFound = errors.New("review submission not found")
	// ErrSubmissionReviewed - публикация уже не в статусе pending
	ErrSubmissionReviewed = errors.New("review submission already reviewed")
)

type SubmissionFilter struct {
	GuideID  string
	OrderID  string
	Status   models.SubmissionStatus
	Page     int
	PageSize int
}

type SubmissionRepository interface {
	Create(db *gorm.DB, submission *models.ReviewSubmission) error
	FindByID(db *gorm.DB, id string) (*models.ReviewSubmission, error)
	FindWithFilter(db *gorm.DB, filter SubmissionFilter) ([]models.ReviewSubmission, int64, error)
	FindByGuideSince(db *gorm.DB, guideID string, since time.Time) ([]models.ReviewSubmission, error)

	// Счетчики для лимитов
	CountActiveByOrder(db *gorm.DB, orderID string) (int64, error)
	CountActiveByAccountSince(db *gorm.DB, accountID string, since time.Time) (int64, error)
	CountByAccount(db *gorm.DB, accountID string) (int64, error)

	// Review закрывает pending-публикацию. Повторная проверка - ErrSubmissionReviewed.
	Review(db *gorm.DB, id string, status models.SubmissionStatus, updates map[string]interface{}) error
}

type SubmissionRepositoryImpl struct{}

func NewSubmissionRepository() SubmissionRepository {
	return &SubmissionRepositoryImpl{}
}

func (r *SubmissionRepositoryImpl) Create(db *gorm.DB, submission *models.ReviewSubmission) error {
	return db.Create(submission).Error
}

func (r *SubmissionRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.ReviewSubmission, error) {
	var submission models.ReviewSubmission
	if err := db.First(&submission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepositoryImpl) FindWithFilter(db *gorm.DB, filter SubmissionFilter) ([]models.ReviewSubmission, int64, error) {
	var submissions []models.ReviewSubmission
	var total int64

	query := db.Model(&models.ReviewSubmission{})
	if filter.GuideID != "" {
		query = query.Where("guide_id = ?", filter.GuideID)
	}
	if filter.OrderID != "" {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	err := query.Order("created_at DESC").Find(&submissions).Error
	return submissions, total, err
}

func (r *SubmissionRepositoryImpl) FindByGuideSince(db *gorm.DB, guideID string, since time.Time) ([]models.ReviewSubmission, error) {
	var submissions []models.ReviewSubmission
	err := db.Where("guide_id = ? AND created_at >= ?", guideID, since).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// CountActiveByOrder - публикации заказа, кроме отклоненных
func (r *SubmissionRepositoryImpl) CountActiveByOrder(db *gorm.DB, orderID string) (int64, error) {
	var count int64
	err := db.Model(&models.ReviewSubmission{}).
		Where("order_id = ? AND status <> ?", orderID, models.SubmissionStatusRejected).
		Count(&count).Error
	return count, err
}

func (r *SubmissionRepositoryImpl) CountActiveByAccountSince(db *gorm.DB, accountID string, since time.Time) (int64, error) {
	var count int64
	err := db.Model(&models.ReviewSubmission{}).
		Where("gmail_account_id = ? AND status <> ? AND created_at >= ?", accountID, models.SubmissionStatusRejected, since).
		Count(&count).Error
	return count, err
}

func (r *SubmissionRepositoryImpl) CountByAccount(db *gorm.DB, accountID string) (int64, error) {
	var count int64
	err := db.Model(&models.ReviewSubmission{}).Where("gmail_account_id = ?", accountID).Count(&count).Error
	return count, err
}

func (r *SubmissionRepositoryImpl) Review(db *gorm.DB, id string, status models.SubmissionStatus, updates map[string]interface{}) error {
	values := map[string]interface{}{"status": status}
	for k, v := range updates {
		values[k] = v
	}

	result := db.Model(&models.ReviewSubmission{}).
		Where("id = ? AND status = ?", id, models.SubmissionStatusPending).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionReviewed
	}
	return nil
}
