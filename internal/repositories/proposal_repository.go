package repositories

import (
	"errors"

	"achatavis_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProposalNotFound = errors.New("review proposal not found")
	// ErrProposalClaimed - предложение уже привязано к другой публикации
	ErrProposalClaimed = errors.New("review proposal already claimed")
)

type ProposalRepository interface {
	Create(db *gorm.DB, proposal *models.ReviewProposal) error
	CreateBatch(db *gorm.DB, proposals []models.ReviewProposal) error
	FindByID(db *gorm.DB, id string) (*models.ReviewProposal, error)
	FindByOrder(db *gorm.DB, orderID string) ([]models.ReviewProposal, error)
	FindUnclaimedByOrder(db *gorm.DB, orderID string) ([]models.ReviewProposal, error)
	CountByOrder(db *gorm.DB, orderID string) (int64, error)
	CountUnclaimedByOrder(db *gorm.DB, orderID string) (int64, error)
	Update(db *gorm.DB, proposal *models.ReviewProposal) error
	Delete(db *gorm.DB, id string) error
	DeleteUnpublishedByOrder(db *gorm.DB, orderID string) (int64, error)

	// Гонка за предложение решается здесь
	Claim(db *gorm.DB, proposalID, submissionID string) error
	Release(db *gorm.DB, proposalID, submissionID string) error
}

type ProposalRepositoryImpl struct{}

func NewProposalRepository() ProposalRepository {
	return &ProposalRepositoryImpl{}
}

func (r *ProposalRepositoryImpl) Create(db *gorm.DB, proposal *models.ReviewProposal) error {
	return db.Create(proposal).Error
}

func (r *ProposalRepositoryImpl) CreateBatch(db *gorm.DB, proposals []models.ReviewProposal) error {
	if len(proposals) == 0 {
		return nil
	}
	return db.Create(&proposals).Error
}

func (r *ProposalRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.ReviewProposal, error) {
	var proposal models.ReviewProposal
	if err := db.First(&proposal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepositoryImpl) FindByOrder(db *gorm.DB, orderID string) ([]models.ReviewProposal, error) {
	var proposals []models.ReviewProposal
	err := db.Where("order_id = ?", orderID).Order("created_at ASC").Find(&proposals).Error
	return proposals, err
}

func (r *ProposalRepositoryImpl) FindUnclaimedByOrder(db *gorm.DB, orderID string) ([]models.ReviewProposal, error) {
	var proposals []models.ReviewProposal
	err := db.Where("order_id = ? AND submission_id IS NULL", orderID).Order("created_at ASC").Find(&proposals).Error
	return proposals, err
}

func (r *ProposalRepositoryImpl) CountByOrder(db *gorm.DB, orderID string) (int64, error) {
	var count int64
	err := db.Model(&models.ReviewProposal{}).Where("order_id = ?", orderID).Count(&count).Error
	return count, err
}

func (r *ProposalRepositoryImpl) CountUnclaimedByOrder(db *gorm.DB, orderID string) (int64, error) {
	var count int64
	err := db.Model(&models.ReviewProposal{}).Where("order_id = ? AND submission_id IS NULL", orderID).Count(&count).Error
	return count, err
}

// Update меняет только текст. Привязанное к публикации предложение не трогаем.
func (r *ProposalRepositoryImpl) Update(db *gorm.DB, proposal *models.ReviewProposal) error {
	result := db.Model(&models.ReviewProposal{}).
		Where("id = ? AND submission_id IS NULL", proposal.ID).
		Updates(map[string]interface{}{
			"author_name": proposal.AuthorName,
			"rating":      proposal.Rating,
			"content":     proposal.Content,
			"generated":   proposal.Generated,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProposalClaimed
	}
	return nil
}

func (r *ProposalRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ? AND submission_id IS NULL", id).Delete(&models.ReviewProposal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProposalClaimed
	}
	return nil
}

// DeleteUnpublishedByOrder удаляет все предложения без публикации. Опубликованные остаются для аудита.
func (r *ProposalRepositoryImpl) DeleteUnpublishedByOrder(db *gorm.DB, orderID string) (int64, error) {
	result := db.Where("order_id = ? AND submission_id IS NULL", orderID).Delete(&models.ReviewProposal{})
	return result.RowsAffected, result.Error
}

// Claim привязывает публикацию, только если предложение еще свободно.
// Из двух одновременных попыток строку обновит ровно одна.
func (r *ProposalRepositoryImpl) Claim(db *gorm.DB, proposalID, submissionID string) error {
	result := db.Model(&models.ReviewProposal{}).
		Where("id = ? AND submission_id IS NULL", proposalID).
		Update("submission_id", submissionID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProposalClaimed
	}
	return nil
}

// Release освобождает предложение после отклонения публикации
func (r *ProposalRepositoryImpl) Release(db *gorm.DB, proposalID, submissionID string) error {
	return db.Model(&models.ReviewProposal{}).
		Where("id = ? AND submission_id = ?", proposalID, submissionID).
		Update("submission_id", nil).Error
}
