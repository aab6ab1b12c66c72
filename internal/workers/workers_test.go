package workers_test

import (
	"context"
	"testing"
	"time"

	"achatavis_backend/internal/app"
	"achatavis_backend/internal/models"
	"achatavis_backend/internal/payment"
	"achatavis_backend/internal/scraper"
	"achatavis_backend/internal/services/dto"
	"achatavis_backend/internal/testutil"
	"achatavis_backend/internal/workers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentWorker_RunOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	invoices, err := payment.NewInvoiceIDs(2)
	require.NoError(t, err)
	container := app.NewServiceContainer(testutil.NewTestConfig(), app.Collaborators{
		Payments: &testutil.FakeProvider{ValidSign: true},
		Invoices: invoices,
	})
	ctx := context.Background()

	artisan := testutil.CreateArtisan(t, db)
	session, err := container.PaymentService.CreateCheckout(ctx, db, artisan.ID, &dto.CheckoutRequest{PlanID: "starter"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.PaymentSession{}).Where("id = ?", session.ID).
		Update("created_at", time.Now().Add(-72*time.Hour)).Error)

	worker := workers.NewPaymentWorker(db, container.PaymentService, time.Minute)
	assert.Equal(t, int64(1), worker.RunOnce(ctx))
	assert.Zero(t, worker.RunOnce(ctx))
}

func TestTrustWorker_RunOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	profiles := &testutil.FakeScraper{Profile: &scraper.Profile{LocalGuideLevel: 4, ReviewCount: 30, AvatarURL: "https://lh3.example.com/c.jpg"}}
	container := app.NewServiceContainer(testutil.NewTestConfig(), app.Collaborators{Scraper: profiles})
	ctx := context.Background()

	guide := testutil.CreateGuide(t, db)
	for i := 0; i < 3; i++ {
		account := testutil.CreateGmailAccount(t, db, guide.ID, models.TrustLevelBronze, 30)
		require.NoError(t, db.Model(account).Update("maps_profile_url", "https://www.google.com/maps/contrib/42").Error)
	}

	worker := workers.NewTrustWorker(db, container.GmailAccountService, time.Minute, 24*time.Hour, 2)
	assert.Equal(t, int64(2), worker.RunOnce(ctx))
	assert.Equal(t, int64(1), worker.RunOnce(ctx))
	assert.Zero(t, worker.RunOnce(ctx))
	assert.Equal(t, 3, profiles.Calls)
}

func TestWorkers_StopWithContext(t *testing.T) {
	db := testutil.NewTestDB(t)
	container := app.NewServiceContainer(testutil.NewTestConfig(), app.Collaborators{})

	ctx, cancel := context.WithCancel(context.Background())
	workers.NewPaymentWorker(db, container.PaymentService, 10*time.Millisecond).Start(ctx)
	workers.NewTrustWorker(db, container.GmailAccountService, 10*time.Millisecond, time.Hour, 10).Start(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
	// даем горутинам выйти до закрытия БД
	time.Sleep(20 * time.Millisecond)
}
