package testutil

import (
	"fmt"
	"testing"
	"time"

	"achatavis_backend/internal/auth"
	"achatavis_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const TestJWTSecret = "test-secret"

// CreateUser создает активного пользователя с ролью
func CreateUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		PasswordHash: "$2a$10$fixture",
		Role:         role,
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateArtisan(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := CreateUser(t, db, models.UserRoleArtisan)
	require.NoError(t, db.Create(&models.ArtisanProfile{UserID: user.ID, CompanyName: "Boulangerie Test"}).Error)
	return user
}

func CreateGuide(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := CreateUser(t, db, models.UserRoleGuide)
	require.NoError(t, db.Create(&models.GuideProfile{UserID: user.ID, DisplayName: "Guide"}).Error)
	return user
}

// CreateGmailAccount - активный аккаунт с заданным уровнем доверия
func CreateGmailAccount(t *testing.T, db *gorm.DB, guideID string, level models.TrustLevel, score int) *models.GmailAccount {
	t.Helper()
	account := &models.GmailAccount{
		GuideID:         guideID,
		Email:           fmt.Sprintf("guide.%s@gmail.com", uuid.NewString()[:8]),
		TrustLevel:      level,
		TrustScoreValue: score,
		LocalGuideLevel: 5,
		IsActive:        true,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

// CreateSector. required - минимальный уровень аккаунта.
func CreateSector(t *testing.T, db *gorm.DB, difficulty models.Difficulty, required models.TrustLevel) *models.Sector {
	t.Helper()
	sector := &models.Sector{
		Slug:               "sector-" + uuid.NewString()[:8],
		Name:               "Test sector",
		Difficulty:         difficulty,
		RequiredGmailLevel: required,
		IsActive:           true,
	}
	require.NoError(t, db.Create(sector).Error)
	return sector
}

// CreateOrder создает заказ сразу в нужном статусе
func CreateOrder(t *testing.T, db *gorm.DB, artisanID string, sector *models.Sector, quantity int, status models.OrderStatus) *models.ReviewOrder {
	t.Helper()
	order := &models.ReviewOrder{
		ArtisanID:   artisanID,
		CompanyName: "Boulangerie Test",
		City:        "Lyon",
		Quantity:    quantity,
		Tone:        models.OrderToneFriendly,
		Pace:        models.OrderPaceNormal,
		Language:    "fr",
		Status:      status,
	}
	if sector != nil {
		order.SectorID = &sector.ID
	}
	if status != models.OrderStatusDraft && status != models.OrderStatusPending {
		now := time.Now()
		order.SubmittedAt = &now
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

// CreateProposals добавляет count неопубликованных предложений
func CreateProposals(t *testing.T, db *gorm.DB, orderID string, count int) []models.ReviewProposal {
	t.Helper()
	proposals := make([]models.ReviewProposal, 0, count)
	for i := 0; i < count; i++ {
		p := models.ReviewProposal{
			OrderID:    orderID,
			AuthorName: fmt.Sprintf("Client %d", i+1),
			Rating:     5,
			Content:    fmt.Sprintf("Très bon accueil, visite numéro %d.", i+1),
		}
		require.NoError(t, db.Create(&p).Error)
		proposals = append(proposals, p)
	}
	return proposals
}

// CreatePack - оплаченная квота без сессии провайдера
func CreatePack(t *testing.T, db *gorm.DB, artisanID string, reviews int) *models.PaymentPack {
	t.Helper()
	pack := &models.PaymentPack{
		ArtisanID:        artisanID,
		SessionID:        uuid.NewString(),
		PlanID:           "starter",
		ReviewsTotal:     reviews,
		ReviewsRemaining: reviews,
	}
	require.NoError(t, db.Create(pack).Error)
	return pack
}

// CreateSubmission - публикация в заданном статусе, предложение помечается занятым
func CreateSubmission(t *testing.T, db *gorm.DB, guideID string, order *models.ReviewOrder, proposal *models.ReviewProposal, account *models.GmailAccount, status models.SubmissionStatus) *models.ReviewSubmission {
	t.Helper()
	submission := &models.ReviewSubmission{
		GuideID:        guideID,
		OrderID:        order.ID,
		ProposalID:     proposal.ID,
		GmailAccountID: account.ID,
		ReviewURL:      "https://maps.google.com/review/" + uuid.NewString()[:8],
		Status:         status,
	}
	require.NoError(t, db.Create(submission).Error)
	if status != models.SubmissionStatusRejected {
		require.NoError(t, db.Model(&models.ReviewProposal{}).Where("id = ?", proposal.ID).
			Update("submission_id", submission.ID).Error)
		proposal.SubmissionID = &submission.ID
	}
	return submission
}

// Token выпускает JWT для пользователя
func Token(t *testing.T, user *models.User) string {
	t.Helper()
	auth.Init(TestJWTSecret)
	token, err := auth.GenerateToken(user.ID, user.Role, time.Hour)
	require.NoError(t, err)
	return token
}
