package testutil

import "achatavis_backend/internal/config"

// NewTestConfig - конфиг по умолчанию с тестовым секретом JWT
func NewTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.JWT.Secret = TestJWTSecret
	return cfg
}
