package workers

import (
	"context"
	"time"

	"achatavis_backend/internal/logger"
	"achatavis_backend/internal/services"

	"gorm.io/gorm"
)

// TrustWorker периодически пересчитывает трастовый балл аккаунтов,
// профиль которых давно не проверялся
type TrustWorker struct {
	db       *gorm.DB
	accounts services.GmailAccountService
	interval time.Duration
	maxAge   time.Duration
	batch    int
}

func NewTrustWorker(db *gorm.DB, accounts services.GmailAccountService, interval, maxAge time.Duration, batch int) *TrustWorker {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	if batch <= 0 {
		batch = 50
	}
	return &TrustWorker{db: db, accounts: accounts, interval: interval, maxAge: maxAge, batch: batch}
}

func (w *TrustWorker) Start(ctx context.Context) {
	go w.refreshStaleAccounts(ctx)
}

func (w *TrustWorker) refreshStaleAccounts(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Trust worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

func (w *TrustWorker) RunOnce(ctx context.Context) int64 {
	refreshed, err := w.accounts.RefreshStaleAccounts(ctx, w.db.WithContext(ctx), w.maxAge, w.batch)
	logger.WorkerLog("trust", "refresh_stale_accounts", refreshed, err)
	return refreshed
}
