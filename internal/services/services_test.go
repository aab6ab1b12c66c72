package services_test

import (
	"context"
	"testing"

	"achatavis_backend/internal/app"
	"achatavis_backend/internal/config"
	"achatavis_backend/internal/payment"
	"achatavis_backend/internal/services"
	"achatavis_backend/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testEnv - сервисы на SQLite с подменой внешних систем
type testEnv struct {
	ctx       context.Context
	db        *gorm.DB
	cfg       *config.Config
	scraper   *testutil.FakeScraper
	generator *testutil.FakeGenerator
	provider  *testutil.FakeProvider
	notifier  *testutil.RecordingNotifier
	svc       *services.ServiceContainer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	invoices, err := payment.NewInvoiceIDs(1)
	require.NoError(t, err)

	env := &testEnv{
		ctx:       context.Background(),
		db:        testutil.NewSeededTestDB(t),
		cfg:       testutil.NewTestConfig(),
		scraper:   &testutil.FakeScraper{},
		generator: &testutil.FakeGenerator{},
		provider:  &testutil.FakeProvider{ValidSign: true},
		notifier:  &testutil.RecordingNotifier{},
	}
	env.svc = app.NewServiceContainer(env.cfg, app.Collaborators{
		Scraper:   env.scraper,
		Generator: env.generator,
		Payments:  env.provider,
		Invoices:  invoices,
		Notifier:  env.notifier,
	})
	return env
}
