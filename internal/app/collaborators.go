package app

import (
	"context"

	"achatavis_backend/internal/config"
	"achatavis_backend/internal/email"
	"achatavis_backend/internal/logger"
	"achatavis_backend/internal/payment"
	"achatavis_backend/internal/scraper"
	"achatavis_backend/internal/textgen"
)

// Collaborators - внешние системы. В тестах подменяются фейками.
type Collaborators struct {
	Scraper   scraper.Scraper
	Generator textgen.Generator
	Payments  payment.Provider
	Invoices  *payment.InvoiceIDs
	Notifier  email.Notifier
}

func buildCollaborators(ctx context.Context, cfg *config.Config) Collaborators {
	deps := Collaborators{
		Scraper: scraper.NewMapsScraper(cfg.Scraper.Timeout, cfg.Scraper.UserAgent),
		Payments: payment.NewRobokassaProvider(payment.RobokassaConfig{
			MerchantLogin: cfg.Payment.MerchantLogin,
			Password1:     cfg.Payment.Password1,
			Password2:     cfg.Payment.Password2,
			BaseURL:       cfg.Payment.BaseURL,
			Currency:      cfg.Payment.Currency,
			Culture:       cfg.Payment.Culture,
			IsTest:        cfg.Payment.IsTest,
			Timeout:       cfg.Payment.Timeout,
		}),
		Notifier: email.NoopNotifier{},
	}

	invoices, err := payment.NewInvoiceIDs(cfg.Payment.NodeID)
	if err != nil {
		logger.Fatal("Failed to initialize invoice ids", "error", err)
	}
	deps.Invoices = invoices

	// Генератор опционален: без ключа ручное наполнение предложений продолжает работать
	generator, err := textgen.NewGeminiGenerator(ctx, cfg.TextGen.APIKey, cfg.TextGen.Model)
	if err != nil {
		logger.Warn("Text generation disabled", "error", err)
	} else {
		deps.Generator = generator
	}

	smtp := &email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}
	if smtp.Configured() {
		deps.Notifier = email.NewNotifier(email.NewGomailProvider(smtp), email.NewTemplateManager())
		logger.Info("Email notifications enabled", "host", smtp.Host)
	} else {
		logger.Warn("SMTP is not configured. Email notifications are disabled.")
	}

	return deps
}
