package email

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Configured - без хоста письма не отправляем, используется NoopNotifier
func (c *SMTPConfig) Configured() bool {
	return c != nil && c.Host != ""
}
