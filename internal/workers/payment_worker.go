package workers

import (
	"context"
	"time"

	"achatavis_backend/internal/logger"
	"achatavis_backend/internal/services"

	"gorm.io/gorm"
)

// PaymentWorker переводит брошенные сессии оплаты в expired
type PaymentWorker struct {
	db       *gorm.DB
	payments services.PaymentService
	interval time.Duration
}

func NewPaymentWorker(db *gorm.DB, payments services.PaymentService, interval time.Duration) *PaymentWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &PaymentWorker{db: db, payments: payments, interval: interval}
}

// Start запускает фоновую задачу
func (w *PaymentWorker) Start(ctx context.Context) {
	go w.expireStaleSessions(ctx)
}

func (w *PaymentWorker) expireStaleSessions(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Payment worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce - один проход, возвращает число просроченных сессий
func (w *PaymentWorker) RunOnce(ctx context.Context) int64 {
	expired, err := w.payments.ExpireStaleSessions(ctx, w.db.WithContext(ctx))
	logger.WorkerLog("payment", "expire_stale_sessions", expired, err)
	return expired
}
