package repositories_test

import (
	"errors"
	"testing"

	"achatavis_backend/internal/models"
	"achatavis_backend/internal/repositories"
	"achatavis_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestProposalClaim_SecondClaimLoses(t *testing.T) {
	db := testutil.NewTestDB(t)
	artisan := testutil.CreateArtisan(t, db)
	guide := testutil.CreateGuide(t, db)
	sector := testutil.CreateSector(t, db, models.DifficultyEasy, models.TrustLevelBronze)
	account := testutil.CreateGmailAccount(t, db, guide.ID, models.TrustLevelBronze, 30)
	order := testutil.CreateOrder(t, db, artisan.ID, sector, 1, models.OrderStatusSubmitted)
	proposal := testutil.CreateProposals(t, db, order.ID, 1)[0]

	// две публикации без привязки, как у двух гидов в середине захвата
	first := testutil.CreateSubmission(t, db, guide.ID, order, &proposal, account, models.SubmissionStatusRejected)
	second := testutil.CreateSubmission(t, db, guide.ID, order, &proposal, account, models.SubmissionStatusRejected)

	repo := repositories.NewProposalRepository()
	require.NoError(t, repo.Claim(db, proposal.ID, first.ID))

	err := repo.Claim(db, proposal.ID, second.ID)
	assert.True(t, errors.Is(err, repositories.ErrProposalClaimed))

	stored, err := repo.FindByID(db, proposal.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.SubmissionID)
	assert.Equal(t, first.ID, *stored.SubmissionID)

	// чужая публикация не может освободить предложение
	require.NoError(t, repo.Release(db, proposal.ID, second.ID))
	stored, err = repo.FindByID(db, proposal.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPublished())

	require.NoError(t, repo.Release(db, proposal.ID, first.ID))
	require.NoError(t, repo.Claim(db, proposal.ID, second.ID))
}

// dryRunPostgres собирает SQL для Postgres без подключения к серверу
func dryRunPostgres(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=achatavis dbname=achatavis sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	var statements []string
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	}))
	return db, &statements
}

func TestFindByIDForUpdate_LocksRow(t *testing.T) {
	db, statements := dryRunPostgres(t)

	_, _ = repositories.NewOrderRepository().FindByIDForUpdate(db, "order-1")
	require.NotEmpty(t, *statements)
	assert.Contains(t, (*statements)[0], "review_orders")
	assert.Contains(t, (*statements)[0], "FOR UPDATE")

	*statements = nil
	_, _ = repositories.NewGmailAccountRepository().FindByIDForUpdate(db, "account-1")
	require.NotEmpty(t, *statements)
	assert.Contains(t, (*statements)[0], "FOR UPDATE")

	// обычное чтение без блокировки
	*statements = nil
	_, _ = repositories.NewOrderRepository().FindByID(db, "order-1")
	require.NotEmpty(t, *statements)
	assert.NotContains(t, (*statements)[0], "FOR UPDATE")
}
