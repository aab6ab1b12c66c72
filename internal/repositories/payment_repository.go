package repositories

import (
	"errors"
	"time"

	"achatavis_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPaymentSessionNotFound = errors.New("payment session not found")
	ErrPaymentPackNotFound    = errors.New("payment pack not found")
	// ErrSessionAlreadyActivated - пакет по сессии уже начислен
	ErrSessionAlreadyActivated = errors.New("payment session already activated")
	// ErrInsufficientQuota - ни в одном пакете нет нужного остатка
	ErrInsufficientQuota = errors.New("insufficient review quota")
)

type PaymentRepository interface {
	// Сессии оплаты
	CreateSession(db *gorm.DB, session *models.PaymentSession) error
	FindSessionByID(db *gorm.DB, id string) (*models.PaymentSession, error)
	FindSessionByInvID(db *gorm.DB, invID int64) (*models.PaymentSession, error)
	UpdateSession(db *gorm.DB, session *models.PaymentSession) error
	ActivateSession(db *gorm.DB, id string, at time.Time) error
	LinkSessionPack(db *gorm.DB, sessionID, packID string) error
	ExpireStaleSessions(db *gorm.DB, before time.Time) (int64, error)

	// Пакеты квоты
	CreatePack(db *gorm.DB, pack *models.PaymentPack) error
	FindPacksByArtisan(db *gorm.DB, artisanID string) ([]models.PaymentPack, error)
	ConsumeQuota(db *gorm.DB, artisanID string, reviews int) (*models.PaymentPack, error)
	RefundQuota(db *gorm.DB, packID string, reviews int) error
}

type PaymentRepositoryImpl struct{}

func NewPaymentRepository() PaymentRepository {
	return &PaymentRepositoryImpl{}
}

// ==========================================
// Сессии оплаты
// ==========================================

func (r *PaymentRepositoryImpl) CreateSession(db *gorm.DB, session *models.PaymentSession) error {
	return db.Create(session).Error
}

func (r *PaymentRepositoryImpl) FindSessionByID(db *gorm.DB, id string) (*models.PaymentSession, error) {
	var session models.PaymentSession
	if err := db.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *PaymentRepositoryImpl) FindSessionByInvID(db *gorm.DB, invID int64) (*models.PaymentSession, error) {
	var session models.PaymentSession
	if err := db.Where("inv_id = ?", invID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *PaymentRepositoryImpl) UpdateSession(db *gorm.DB, session *models.PaymentSession) error {
	return db.Save(session).Error
}

// ActivateSession ставит одноразовый маркер. Победитель гонки получает nil,
// все повторы - ErrSessionAlreadyActivated.
func (r *PaymentRepositoryImpl) ActivateSession(db *gorm.DB, id string, at time.Time) error {
	result := db.Model(&models.PaymentSession{}).
		Where("id = ? AND activated_at IS NULL", id).
		Updates(map[string]interface{}{
			"activated_at": at,
			"paid_at":      at,
			"status":       models.PaymentStatusPaid,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionAlreadyActivated
	}
	return nil
}

func (r *PaymentRepositoryImpl) LinkSessionPack(db *gorm.DB, sessionID, packID string) error {
	return db.Model(&models.PaymentSession{}).Where("id = ?", sessionID).Update("pack_id", packID).Error
}

// ExpireStaleSessions переводит брошенные сессии в expired
func (r *PaymentRepositoryImpl) ExpireStaleSessions(db *gorm.DB, before time.Time) (int64, error) {
	result := db.Model(&models.PaymentSession{}).
		Where("status = ? AND activated_at IS NULL AND created_at < ?", models.PaymentStatusPending, before).
		Update("status", models.PaymentStatusExpired)
	return result.RowsAffected, result.Error
}

// ==========================================
// Пакеты квоты
// ==========================================

func (r *PaymentRepositoryImpl) CreatePack(db *gorm.DB, pack *models.PaymentPack) error {
	return db.Create(pack).Error
}

func (r *PaymentRepositoryImpl) FindPacksByArtisan(db *gorm.DB, artisanID string) ([]models.PaymentPack, error) {
	var packs []models.PaymentPack
	err := db.Where("artisan_id = ?", artisanID).Order("created_at ASC").Find(&packs).Error
	return packs, err
}

// ConsumeQuota списывает reviews из самого старого пакета, где хватает остатка.
// Проверка и списание - один UPDATE, поэтому две параллельные отправки не продадут квоту дважды.
func (r *PaymentRepositoryImpl) ConsumeQuota(db *gorm.DB, artisanID string, reviews int) (*models.PaymentPack, error) {
	var candidates []models.PaymentPack
	if err := db.Where("artisan_id = ? AND reviews_remaining >= ?", artisanID, reviews).
		Order("created_at ASC").
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	for i := range candidates {
		pack := &candidates[i]
		result := db.Model(&models.PaymentPack{}).
			Where("id = ? AND reviews_remaining >= ?", pack.ID, reviews).
			Update("reviews_remaining", gorm.Expr("reviews_remaining - ?", reviews))
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 1 {
			pack.ReviewsRemaining -= reviews
			return pack, nil
		}
		// кто-то успел раньше, пробуем следующий пакет
	}
	return nil, ErrInsufficientQuota
}

// RefundQuota возвращает неиспользованные отзывы, не выше ReviewsTotal
func (r *PaymentRepositoryImpl) RefundQuota(db *gorm.DB, packID string, reviews int) error {
	if reviews <= 0 {
		return nil
	}
	result := db.Model(&models.PaymentPack{}).
		Where("id = ? AND reviews_remaining + ? <= reviews_total", packID, reviews).
		Update("reviews_remaining", gorm.Expr("reviews_remaining + ?", reviews))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentPackNotFound
	}
	return nil
}
