package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"achatavis_backend/internal/algorithms"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// PaymentPlan - пакет отзывов, который можно купить
type PaymentPlan struct {
	ID      string  `yaml:"id" json:"id"`
	Name    string  `yaml:"name" json:"name"`
	Reviews int     `yaml:"reviews" json:"reviews"`
	Price   float64 `yaml:"price" json:"price"`
}

type Config struct {
	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Env         string   `yaml:"env"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		DSN         string `yaml:"url"`
		AutoMigrate bool   `yaml:"auto_migrate"`
		Seed        bool   `yaml:"seed"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	TextGen struct {
		APIKey  string        `yaml:"api_key"`
		Model   string        `yaml:"model"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"textgen"`

	Scraper struct {
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
	} `yaml:"scraper"`

	Payment struct {
		MerchantLogin string        `yaml:"merchant_login"`
		Password1     string        `yaml:"password1"`
		Password2     string        `yaml:"password2"`
		BaseURL       string        `yaml:"base_url"`
		Currency      string        `yaml:"currency"`
		Culture       string        `yaml:"culture"`
		IsTest        bool          `yaml:"is_test"`
		Timeout       time.Duration `yaml:"timeout"`
		SessionTTL    time.Duration `yaml:"session_ttl"`
		NodeID        int64         `yaml:"node_id"`
		Plans         []PaymentPlan `yaml:"plans"`
	} `yaml:"payment"`

	Workers struct {
		PaymentSweepInterval time.Duration `yaml:"payment_sweep_interval"`
		TrustRefreshInterval time.Duration `yaml:"trust_refresh_interval"`
		TrustMaxAge          time.Duration `yaml:"trust_max_age"`
		TrustBatchSize       int           `yaml:"trust_batch_size"`
	} `yaml:"workers"`

	Policy algorithms.Policy `yaml:"policy"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию в AppConfig, ошибки фатальны
func LoadConfig() {
	// .env необязателен: в контейнере переменные приходят снаружи
	_ = godotenv.Load(".env")

	cfg, err := load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Println("Загрузка из config.yaml")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}
		return LoadFile(configPath)
	}

	log.Println("Загрузка конфигурации из переменных окружения")

	cfg := newConfig()
	cfg.Database.DSN = dbURL
	cfg.Database.AutoMigrate = true
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.FirstAdminEmail = os.Getenv("FIRST_ADMIN_EMAIL")
	cfg.FirstAdminPassword = os.Getenv("FIRST_ADMIN_PASSWORD")

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// newConfig - пустой конфиг с политикой по умолчанию.
// YAML декодируется поверх: незаданные ключи policy сохраняют значения по умолчанию.
func newConfig() *Config {
	return &Config{Policy: algorithms.DefaultPolicy()}
}

// Default - конфиг только из значений по умолчанию
func Default() *Config {
	cfg := newConfig()
	applyDefaults(cfg)
	return cfg
}

// LoadFile читает YAML-конфиг и применяет переменные окружения поверх него
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	cfg := newConfig()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// Секреты не храним в config.yaml
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.TextGen.APIKey = v
	}
	if v := os.Getenv("ROBOKASSA_LOGIN"); v != "" {
		cfg.Payment.MerchantLogin = v
	}
	if v := os.Getenv("ROBOKASSA_PASSWORD1"); v != "" {
		cfg.Payment.Password1 = v
	}
	if v := os.Getenv("ROBOKASSA_PASSWORD2"); v != "" {
		cfg.Payment.Password2 = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.SMTPPassword = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.TextGen.Model == "" {
		cfg.TextGen.Model = "gemini-2.5-flash"
	}
	if cfg.TextGen.Timeout == 0 {
		cfg.TextGen.Timeout = 30 * time.Second
	}
	if cfg.Scraper.Timeout == 0 {
		cfg.Scraper.Timeout = 8 * time.Second
	}
	if cfg.Scraper.UserAgent == "" {
		cfg.Scraper.UserAgent = "Mozilla/5.0 (compatible; AchatAvisBot/1.0)"
	}
	if cfg.Payment.BaseURL == "" {
		cfg.Payment.BaseURL = "https://auth.robokassa.ru/Merchant/Index.aspx"
	}
	if cfg.Payment.Currency == "" {
		cfg.Payment.Currency = "EUR"
	}
	if cfg.Payment.Culture == "" {
		cfg.Payment.Culture = "fr"
	}
	if cfg.Payment.Timeout == 0 {
		cfg.Payment.Timeout = 10 * time.Second
	}
	if cfg.Payment.SessionTTL == 0 {
		cfg.Payment.SessionTTL = 24 * time.Hour
	}
	if cfg.Payment.NodeID == 0 {
		cfg.Payment.NodeID = 1
	}
	if len(cfg.Payment.Plans) == 0 {
		cfg.Payment.Plans = []PaymentPlan{
			{ID: "starter", Name: "Starter", Reviews: 5, Price: 49},
			{ID: "pro", Name: "Pro", Reviews: 15, Price: 129},
			{ID: "business", Name: "Business", Reviews: 40, Price: 299},
		}
	}
	if cfg.Workers.PaymentSweepInterval == 0 {
		cfg.Workers.PaymentSweepInterval = time.Hour
	}
	if cfg.Workers.TrustRefreshInterval == 0 {
		cfg.Workers.TrustRefreshInterval = 6 * time.Hour
	}
	if cfg.Workers.TrustMaxAge == 0 {
		cfg.Workers.TrustMaxAge = 7 * 24 * time.Hour
	}
	if cfg.Workers.TrustBatchSize == 0 {
		cfg.Workers.TrustBatchSize = 50
	}
}

// FindPlan ищет план по ID
func (c *Config) FindPlan(id string) (PaymentPlan, bool) {
	for _, p := range c.Payment.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return PaymentPlan{}, false
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
