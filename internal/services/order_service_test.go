package services_test

import (
	"errors"
	"testing"

	"achatavis_backend/internal/models"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/internal/testutil"
	"achatavis_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_Defaults(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)
	sector := testutil.CreateSector(t, env.db, models.DifficultyEasy, models.TrustLevelBronze)

	resp, err := env.svc.OrderService.CreateOrder(env.ctx, env.db, artisan.ID, &dto.CreateOrderRequest{
		CompanyName: "  Boulangerie Martin ",
		SectorID:    &sector.ID,
		Quantity:    5,
	})
	require.NoError(t, err)

	assert.Equal(t, "Boulangerie Martin", resp.CompanyName)
	assert.Equal(t, models.OrderStatusDraft, resp.Status)
	assert.Equal(t, models.OrderToneFriendly, resp.Tone)
	assert.Equal(t, "fr", resp.Language)
	require.NotNil(t, resp.Sector)
	assert.Equal(t, sector.ID, resp.Sector.ID)
}

func TestUpdateOrder_OnlyDraft(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)
	sector := testutil.CreateSector(t, env.db, models.DifficultyEasy, models.TrustLevelBronze)

	draft := testutil.CreateOrder(t, env.db, artisan.ID, sector, 3, models.OrderStatusDraft)
	quantity := 8
	resp, err := env.svc.OrderService.UpdateOrder(env.ctx, env.db, artisan.ID, draft.ID, &dto.UpdateOrderRequest{Quantity: &quantity})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Quantity)

	submitted := testutil.CreateOrder(t, env.db, artisan.ID, sector, 3, models.OrderStatusSubmitted)
	_, err = env.svc.OrderService.UpdateOrder(env.ctx, env.db, artisan.ID, submitted.ID, &dto.UpdateOrderRequest{Quantity: &quantity})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidOrderStatus))

	other := testutil.CreateArtisan(t, env.db)
	_, err = env.svc.OrderService.GetOrder(env.ctx, env.db, other.ID, draft.ID)
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientPermissions))
}

func TestSubmitOrder_WarnsAboutMissingProposals(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)
	sector := testutil.CreateSector(t, env.db, models.DifficultyEasy, models.TrustLevelBronze)
	order := testutil.CreateOrder(t, env.db, artisan.ID, sector, 5, models.OrderStatusDraft)
	testutil.CreateProposals(t, env.db, order.ID, 3)
	testutil.CreatePack(t, env.db, artisan.ID, 10)

	resp, err := env.svc.OrderService.SubmitOrder(env.ctx, env.db, artisan.ID, order.ID, &dto.SubmitOrderRequest{})
	require.NoError(t, err)
	assert.False(t, resp.Submitted)
	assert.Equal(t, 2, resp.MissingProposals)
	assert.NotEmpty(t, resp.Warning)
	assert.Equal(t, models.OrderStatusDraft, resp.Order.Status)

	resp, err = env.svc.OrderService.SubmitOrder(env.ctx, env.db, artisan.ID, order.ID, &dto.SubmitOrderRequest{Confirm: true})
	require.NoError(t, err)
	assert.True(t, resp.Submitted)
	assert.False(t, resp.AwaitingPayment)
	assert.Equal(t, models.OrderStatusSubmitted, resp.Order.Status)
	assert.NotNil(t, resp.Order.PaymentID)
	assert.NotNil(t, resp.Order.SubmittedAt)

	var pack models.PaymentPack
	require.NoError(t, env.db.First(&pack, "artisan_id = ?", artisan.ID).Error)
	assert.Equal(t, 5, pack.ReviewsRemaining)
}

func TestSubmitOrder_WithoutQuotaWaitsForPayment(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)
	sector := testutil.CreateSector(t, env.db, models.DifficultyEasy, models.TrustLevelBronze)
	order := testutil.CreateOrder(t, env.db, artisan.ID, sector, 4, models.OrderStatusDraft)
	testutil.CreateProposals(t, env.db, order.ID, 4)
	testutil.CreatePack(t, env.db, artisan.ID, 3)

	resp, err := env.svc.OrderService.SubmitOrder(env.ctx, env.db, artisan.ID, order.ID, &dto.SubmitOrderRequest{})
	require.NoError(t, err)
	assert.True(t, resp.Submitted)
	assert.True(t, resp.AwaitingPayment)
	assert.Equal(t, models.OrderStatusPending, resp.Order.Status)
	assert.Nil(t, resp.Order.PaymentID)

	// повторная отправка без квоты ничего не меняет
	resp, err = env.svc.OrderService.SubmitOrder(env.ctx, env.db, artisan.ID, order.ID, &dto.SubmitOrderRequest{})
	require.NoError(t, err)
	assert.True(t, resp.AwaitingPayment)
	assert.Equal(t, models.OrderStatusPending, resp.Order.Status)
}

func TestSubmitOrder_NotSubmittable(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)

	noSector := testutil.CreateOrder(t, env.db, artisan.ID, nil, 3, models.OrderStatusDraft)
	_, err := env.svc.OrderService.SubmitOrder(env.ctx, env.db, artisan.ID, noSector.ID, &dto.SubmitOrderRequest{Confirm: true})
	assert.True(t, errors.Is(err, apperrors.ErrOrderNotSubmittable))

	sector := testutil.CreateSector(t, env.db, models.DifficultyEasy, models.TrustLevelBronze)
	empty := testutil.CreateOrder(t, env.db, artisan.ID, sector, 0, models.OrderStatusDraft)
	_, err = env.svc.OrderService.SubmitOrder(env.ctx, env.db, artisan.ID, empty.ID, &dto.SubmitOrderRequest{Confirm: true})
	assert.True(t, errors.Is(err, apperrors.ErrOrderNotSubmittable))

	done := testutil.CreateOrder(t, env.db, artisan.ID, sector, 3, models.OrderStatusCompleted)
	_, err = env.svc.OrderService.SubmitOrder(env.ctx, env.db, artisan.ID, done.ID, &dto.SubmitOrderRequest{Confirm: true})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidOrderStatus))
}

func TestCancelOrder_RefundsUnusedQuota(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)
	guide := testutil.CreateGuide(t, env.db)
	sector := testutil.CreateSector(t, env.db, models.DifficultyEasy, models.TrustLevelBronze)
	account := testutil.CreateGmailAccount(t, env.db, guide.ID, models.TrustLevelBronze, 30)

	order := testutil.CreateOrder(t, env.db, artisan.ID, sector, 4, models.OrderStatusDraft)
	proposals := testutil.CreateProposals(t, env.db, order.ID, 4)
	pack := testutil.CreatePack(t, env.db, artisan.ID, 4)

	_, err := env.svc.OrderService.SubmitOrder(env.ctx, env.db, artisan.ID, order.ID, &dto.SubmitOrderRequest{})
	require.NoError(t, err)

	// одна публикация уже есть, ее квота не возвращается
	testutil.CreateSubmission(t, env.db, guide.ID, order, &proposals[0], account, models.SubmissionStatusPending)

	resp, err := env.svc.OrderService.CancelOrder(env.ctx, env.db, artisan.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, resp.Order.Status)
	assert.Equal(t, int64(3), resp.ProposalsDeleted)
	assert.Equal(t, 1, resp.ProposalsRetained)
	assert.Equal(t, 3, resp.ReviewsRefunded)

	var stored models.PaymentPack
	require.NoError(t, env.db.First(&stored, "id = ?", pack.ID).Error)
	assert.Equal(t, 3, stored.ReviewsRemaining)

	_, err = env.svc.OrderService.CancelOrder(env.ctx, env.db, artisan.ID, order.ID)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidOrderStatus))
}

func TestCancelOrder_DraftHasNothingToRefund(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)
	order := testutil.CreateOrder(t, env.db, artisan.ID, nil, 2, models.OrderStatusDraft)
	testutil.CreateProposals(t, env.db, order.ID, 2)

	resp, err := env.svc.OrderService.CancelOrder(env.ctx, env.db, artisan.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.ProposalsDeleted)
	assert.Zero(t, resp.ReviewsRefunded)
}
