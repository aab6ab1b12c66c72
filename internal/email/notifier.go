package email

import (
	"context"
	"log/slog"

	"achatavis_backend/internal/logger"
)

// Notifier - доменные уведомления. Отправка не блокирует запрос, ошибки только логируются.
type Notifier interface {
	SubmissionValidated(ctx context.Context, to string, data TemplateData)
	SubmissionRejected(ctx context.Context, to string, data TemplateData)
	OrderCompleted(ctx context.Context, to string, data TemplateData)
}

type mailNotifier struct {
	provider Provider
	renderer TemplateRenderer
	sync     bool
}

func NewNotifier(provider Provider, renderer TemplateRenderer) Notifier {
	return &mailNotifier{provider: provider, renderer: renderer}
}

// NewSyncNotifier отправляет в вызывающей горутине (для тестов)
func NewSyncNotifier(provider Provider, renderer TemplateRenderer) Notifier {
	return &mailNotifier{provider: provider, renderer: renderer, sync: true}
}

func (n *mailNotifier) SubmissionValidated(ctx context.Context, to string, data TemplateData) {
	n.dispatch(ctx, to, "Votre avis a été validé", TemplateSubmissionValidated, data)
}

func (n *mailNotifier) SubmissionRejected(ctx context.Context, to string, data TemplateData) {
	n.dispatch(ctx, to, "Votre avis a été refusé", TemplateSubmissionRejected, data)
}

func (n *mailNotifier) OrderCompleted(ctx context.Context, to string, data TemplateData) {
	n.dispatch(ctx, to, "Votre fiche est terminée", TemplateOrderCompleted, data)
}

func (n *mailNotifier) dispatch(ctx context.Context, to, subject, templateName string, data TemplateData) {
	if to == "" {
		return
	}
	log := logger.FromContext(ctx)

	send := func() {
		body, err := n.renderer.Render(templateName, data)
		if err != nil {
			log.Error("Failed to render email", slog.String("template", templateName), slog.String("error", err.Error()))
			return
		}
		if err := n.provider.Send(&Email{To: []string{to}, Subject: subject, HTMLBody: body}); err != nil {
			log.Warn("Failed to send email", slog.String("template", templateName), slog.String("error", err.Error()))
		}
	}

	if n.sync {
		send()
		return
	}
	go send()
}

// NoopNotifier - SMTP не настроен
type NoopNotifier struct{}

func (NoopNotifier) SubmissionValidated(context.Context, string, TemplateData) {}
func (NoopNotifier) SubmissionRejected(context.Context, string, TemplateData)  {}
func (NoopNotifier) OrderCompleted(context.Context, string, TemplateData)      {}
