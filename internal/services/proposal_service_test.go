package services_test

import (
	"errors"
	"testing"

	"achatavis_backend/internal/models"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/internal/testutil"
	"achatavis_backend/internal/textgen"
	"achatavis_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProposals_FillsDeficit(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)
	sector := testutil.CreateSector(t, env.db, models.DifficultyEasy, models.TrustLevelBronze)
	order := testutil.CreateOrder(t, env.db, artisan.ID, sector, 5, models.OrderStatusDraft)
	testutil.CreateProposals(t, env.db, order.ID, 2)

	resp, err := env.svc.ProposalService.GenerateProposals(env.ctx, env.db, artisan.ID, order.ID, &dto.GenerateProposalsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Generated)
	assert.Len(t, resp.Proposals, 5)

	require.Len(t, env.generator.Requests, 1)
	assert.Equal(t, 3, env.generator.Requests[0].Quantity)
	assert.Equal(t, "Test sector", env.generator.Requests[0].Sector)

	// набор полный, генератор больше не вызывается
	resp, err = env.svc.ProposalService.GenerateProposals(env.ctx, env.db, artisan.ID, order.ID, &dto.GenerateProposalsRequest{})
	require.NoError(t, err)
	assert.Zero(t, resp.Generated)
	assert.Len(t, env.generator.Requests, 1)
}

func TestGenerateProposals_ForceKeepsPublished(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)
	guide := testutil.CreateGuide(t, env.db)
	sector := testutil.CreateSector(t, env.db, models.DifficultyEasy, models.TrustLevelBronze)
	account := testutil.CreateGmailAccount(t, env.db, guide.ID, models.TrustLevelBronze, 30)
	order := testutil.CreateOrder(t, env.db, artisan.ID, sector, 3, models.OrderStatusInProgress)
	proposals := testutil.CreateProposals(t, env.db, order.ID, 3)
	testutil.CreateSubmission(t, env.db, guide.ID, order, &proposals[0], account, models.SubmissionStatusPending)

	resp, err := env.svc.ProposalService.GenerateProposals(env.ctx, env.db, artisan.ID, order.ID, &dto.GenerateProposalsRequest{Force: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Deleted)
	assert.Equal(t, 2, resp.Generated)
	require.Len(t, resp.Proposals, 3)

	published := 0
	for _, p := range resp.Proposals {
		if p.Published {
			published++
			assert.Equal(t, proposals[0].ID, p.ID)
		}
	}
	assert.Equal(t, 1, published)
}

func TestGenerateProposals_PartialAndFailedReplies(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)
	order := testutil.CreateOrder(t, env.db, artisan.ID, nil, 4, models.OrderStatusDraft)

	env.generator.Limit = 1
	resp, err := env.svc.ProposalService.GenerateProposals(env.ctx, env.db, artisan.ID, order.ID, &dto.GenerateProposalsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Generated)

	env.generator.Err = textgen.ErrMalformedReply
	_, err = env.svc.ProposalService.GenerateProposals(env.ctx, env.db, artisan.ID, order.ID, &dto.GenerateProposalsRequest{})
	assert.True(t, errors.Is(err, apperrors.ErrTextGenerationFailed))

	list, err := env.svc.ProposalService.ListProposals(env.ctx, env.db, artisan.ID, order.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProposalEdits(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)
	guide := testutil.CreateGuide(t, env.db)
	sector := testutil.CreateSector(t, env.db, models.DifficultyEasy, models.TrustLevelBronze)
	account := testutil.CreateGmailAccount(t, env.db, guide.ID, models.TrustLevelBronze, 30)
	order := testutil.CreateOrder(t, env.db, artisan.ID, sector, 3, models.OrderStatusInProgress)
	proposals := testutil.CreateProposals(t, env.db, order.ID, 2)
	testutil.CreateSubmission(t, env.db, guide.ID, order, &proposals[0], account, models.SubmissionStatusPending)

	content := "  Service rapide et soigné.  "
	updated, err := env.svc.ProposalService.UpdateProposal(env.ctx, env.db, artisan.ID, proposals[1].ID, &dto.UpdateProposalRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "Service rapide et soigné.", updated.Content)

	_, err = env.svc.ProposalService.UpdateProposal(env.ctx, env.db, artisan.ID, proposals[0].ID, &dto.UpdateProposalRequest{Content: &content})
	assert.True(t, errors.Is(err, apperrors.ErrProposalLocked))

	err = env.svc.ProposalService.DeleteProposal(env.ctx, env.db, artisan.ID, proposals[0].ID)
	assert.True(t, errors.Is(err, apperrors.ErrProposalLocked))

	other := testutil.CreateArtisan(t, env.db)
	err = env.svc.ProposalService.DeleteProposal(env.ctx, env.db, other.ID, proposals[1].ID)
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientPermissions))

	require.NoError(t, env.svc.ProposalService.DeleteProposal(env.ctx, env.db, artisan.ID, proposals[1].ID))
}

func TestProposalEdits_ClosedOrder(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)
	order := testutil.CreateOrder(t, env.db, artisan.ID, nil, 2, models.OrderStatusCancelled)
	proposal := testutil.CreateProposals(t, env.db, order.ID, 1)[0]

	_, err := env.svc.ProposalService.CreateProposal(env.ctx, env.db, artisan.ID, order.ID, &dto.CreateProposalRequest{
		AuthorName: "Claire", Rating: 4, Content: "Très bien.",
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidOrderStatus))

	rating := 3
	_, err = env.svc.ProposalService.UpdateProposal(env.ctx, env.db, artisan.ID, proposal.ID, &dto.UpdateProposalRequest{Rating: &rating})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidOrderStatus))
}

func TestCreateProposal_SubmittedOrderCappedAtQuantity(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)
	req := &dto.CreateProposalRequest{AuthorName: "Claire", Rating: 5, Content: "Travail impeccable."}

	order := testutil.CreateOrder(t, env.db, artisan.ID, nil, 2, models.OrderStatusSubmitted)
	testutil.CreateProposals(t, env.db, order.ID, 1)

	// одного предложения не хватает, его можно добавить
	_, err := env.svc.ProposalService.CreateProposal(env.ctx, env.db, artisan.ID, order.ID, req)
	require.NoError(t, err)

	_, err = env.svc.ProposalService.CreateProposal(env.ctx, env.db, artisan.ID, order.ID, req)
	assert.True(t, errors.Is(err, apperrors.ErrProposalSetFull))

	var count int64
	require.NoError(t, env.db.Model(&models.ReviewProposal{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// черновик можно наполнять с запасом
	draft := testutil.CreateOrder(t, env.db, artisan.ID, nil, 1, models.OrderStatusDraft)
	testutil.CreateProposals(t, env.db, draft.ID, 1)
	_, err = env.svc.ProposalService.CreateProposal(env.ctx, env.db, artisan.ID, draft.ID, req)
	assert.NoError(t, err)
}
