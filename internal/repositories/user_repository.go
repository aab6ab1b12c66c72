package repositories

import (
	"errors"

	"achatavis_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrGuideProfileNotFound = errors.New("guide profile not found")
)

// UserRepository - только то, что нужно ядру. Регистрацией и логином занимается auth-подсистема.
type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error

	// Guide profile operations
	FindGuideProfile(db *gorm.DB, userID string) (*models.GuideProfile, error)
	UpsertGuideProfile(db *gorm.DB, profile *models.GuideProfile) error
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Preload("ArtisanProfile").Preload("GuideProfile").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExists
	}
	return db.Create(user).Error
}

func (r *UserRepositoryImpl) FindGuideProfile(db *gorm.DB, userID string) (*models.GuideProfile, error) {
	var profile models.GuideProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuideProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpsertGuideProfile создает профиль гида или обновляет статус сертификации
func (r *UserRepositoryImpl) UpsertGuideProfile(db *gorm.DB, profile *models.GuideProfile) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"certification_passed", "certification_score", "certified_at", "updated_at"}),
	}).Create(profile).Error
}
