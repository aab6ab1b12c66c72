package repositories

import (
	"errors"

	"achatavis_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSectorNotFound      = errors.New("sector not found")
	ErrSectorAlreadyExists = errors.New("sector already exists")
)

type SectorRepository interface {
	Create(db *gorm.DB, sector *models.Sector) error
	FindByID(db *gorm.DB, id string) (*models.Sector, error)
	FindBySlug(db *gorm.DB, slug string) (*models.Sector, error)
	FindAll(db *gorm.DB, activeOnly bool) ([]models.Sector, error)
	Update(db *gorm.DB, sector *models.Sector) error
}

type SectorRepositoryImpl struct{}

func NewSectorRepository() SectorRepository {
	return &SectorRepositoryImpl{}
}

func (r *SectorRepositoryImpl) Create(db *gorm.DB, sector *models.Sector) error {
	_, err := r.FindBySlug(db, sector.Slug)
	switch {
	case err == nil:
		return ErrSectorAlreadyExists
	case !errors.Is(err, ErrSectorNotFound):
		return err
	}
	return db.Create(sector).Error
}

func (r *SectorRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Sector, error) {
	var sector models.Sector
	if err := db.First(&sector, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectorNotFound
		}
		return nil, err
	}
	return &sector, nil
}

func (r *SectorRepositoryImpl) FindBySlug(db *gorm.DB, slug string) (*models.Sector, error) {
	var sector models.Sector
	if err := db.Where("slug = ?", slug).First(&sector).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectorNotFound
		}
		return nil, err
	}
	return &sector, nil
}

func (r *SectorRepositoryImpl) FindAll(db *gorm.DB, activeOnly bool) ([]models.Sector, error) {
	var sectors []models.Sector
	query := db.Model(&models.Sector{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&sectors).Error
	return sectors, err
}

func (r *SectorRepositoryImpl) Update(db *gorm.DB, sector *models.Sector) error {
	return db.Save(sector).Error
}

