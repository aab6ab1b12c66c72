package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет email сообщение
	Send(email *Email) error

	// Validate проверяет конфигурацию провайдера
	Validate() error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
}
