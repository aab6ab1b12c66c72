package app_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"achatavis_backend/internal/app"
	"achatavis_backend/internal/logger"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/payment"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitWithWriter("test", io.Discard)
	os.Exit(m.Run())
}

type apiEnv struct {
	db       *gorm.DB
	provider *testutil.FakeProvider
	server   *testutil.TestServer
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	db := testutil.NewSeededTestDB(t)
	cfg := testutil.NewTestConfig()
	invoices, err := payment.NewInvoiceIDs(3)
	require.NoError(t, err)

	provider := &testutil.FakeProvider{ValidSign: true}
	container := app.NewServiceContainer(cfg, app.Collaborators{
		Scraper:   &testutil.FakeScraper{},
		Generator: &testutil.FakeGenerator{},
		Payments:  provider,
		Invoices:  invoices,
		Notifier:  &testutil.RecordingNotifier{},
	})

	return &apiEnv{
		db:       db,
		provider: provider,
		server:   testutil.NewTestServer(t, app.SetupRouter(cfg, db, container)),
	}
}

func TestHealth(t *testing.T) {
	env := newAPIEnv(t)

	res, body := env.server.SendRequest(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestPublicCatalog(t *testing.T) {
	env := newAPIEnv(t)

	res, body := env.server.SendRequest(t, http.MethodGet, "/api/v1/rules", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var rules struct {
		Rules []dto.RuleResponse `json:"rules"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &rules))
	assert.Len(t, rules.Rules, 7)

	res, body = env.server.SendRequest(t, http.MethodGet, "/api/v1/sectors", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "restaurant")

	res, body = env.server.SendRequest(t, http.MethodGet, "/api/v1/payments/plans", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"starter"`)
}

func TestAuthAndRoles(t *testing.T) {
	env := newAPIEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)

	res, body := env.server.SendRequest(t, http.MethodGet, "/api/v1/guide/missions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, body, `"code"`)

	res, _ = env.server.SendRequest(t, http.MethodGet, "/api/v1/guide/missions", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = env.server.SendRequest(t, http.MethodGet, "/api/v1/guide/missions", testutil.Token(t, artisan), nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = env.server.SendRequest(t, http.MethodGet, "/api/v1/admin/sectors", testutil.Token(t, artisan), nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestEligibilityEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)
	guide := testutil.CreateGuide(t, env.db)
	sector := testutil.CreateSector(t, env.db, models.DifficultyMedium, models.TrustLevelSilver)
	order := testutil.CreateOrder(t, env.db, artisan.ID, sector, 2, models.OrderStatusSubmitted)
	account := testutil.CreateGmailAccount(t, env.db, guide.ID, models.TrustLevelBronze, 30)
	token := testutil.Token(t, guide)

	path := fmt.Sprintf("/api/v1/guide/missions/%s/eligibility", order.ID)

	res, _ := env.server.SendRequest(t, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// отказ приходит как 200 с причиной
	res, body := env.server.SendRequest(t, http.MethodGet, path+"?gmail_account_id="+account.ID, token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var resp dto.EligibilityResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.False(t, resp.Eligible)
	assert.Equal(t, "TRUST_LEVEL_TOO_LOW", resp.Reason)
}

func TestClaimEndpoint_Validation(t *testing.T) {
	env := newAPIEnv(t)
	guide := testutil.CreateGuide(t, env.db)

	res, _ := env.server.SendRequest(t, http.MethodPost, "/api/v1/guide/proposals/some-id/claim", testutil.Token(t, guide),
		map[string]string{"gmail_account_id": "not-a-uuid"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestRobokassaResultEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	artisan := testutil.CreateArtisan(t, env.db)

	res, body := env.server.SendRequest(t, http.MethodPost, "/api/v1/artisan/payments/checkout", testutil.Token(t, artisan),
		map[string]string{"plan_id": "starter"})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var session dto.PaymentSessionResponse
	require.NoError(t, json.Unmarshal([]byte(body), &session))

	form := map[string]string{
		"OutSum":         fmt.Sprintf("%.2f", session.Amount),
		"InvId":          fmt.Sprint(session.InvID),
		"SignatureValue": "SIGNED",
	}

	res, body = env.server.SendForm(t, "/api/v1/payments/robokassa/result", form)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, fmt.Sprintf("OK%d", session.InvID), body)

	env.provider.ValidSign = false
	res, body = env.server.SendForm(t, "/api/v1/payments/robokassa/result", form)
	assert.NotEqual(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "bad sign", body)

	res, body = env.server.SendForm(t, "/api/v1/payments/robokassa/result", map[string]string{"OutSum": "1"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "bad request", body)

	res, body = env.server.SendRequest(t, http.MethodGet, "/api/v1/artisan/packs", testutil.Token(t, artisan), nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"reviews_remaining":5`)
}
