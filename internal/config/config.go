package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port    string `env:"PORT,default=8080"`
	GinMode string `env:"GIN_MODE,default=debug"`
	SiteURL string `env:"SITE_URL,default=http://localhost:8080"`

	// ContactEmail is shown on the contact page.
	ContactEmail string `env:"CONTACT_EMAIL,default=support@ideahub.local"`

	DatabaseURL   string `env:"DATABASE_URL,default=host=localhost user=postgres password=postgres dbname=ideahub port=5432 sslmode=disable"`
	SessionSecret string `env:"SESSION_SECRET"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	TemplatesDir string `env:"TEMPLATES_DIR,default=./web/templates"`
	StaticDir    string `env:"STATIC_DIR,default=./web/static"`

	Cloudinary CloudinaryConfig
	Payment    PaymentConfig
	Mail       MailConfig

	VoteTimeout    time.Duration `env:"VOTE_TIMEOUT,default=5s"`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST,default=10"`

	// Optional bootstrap admin, created on startup when both are set.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

type CloudinaryConfig struct {
	CloudName    string `env:"CLOUDINARY_CLOUD_NAME"`
	UploadPreset string `env:"CLOUDINARY_UPLOAD_PRESET"`
	BaseURL      string `env:"CLOUDINARY_BASE_URL,default=https://api.cloudinary.com/v1_1"`
}

type PaymentConfig struct {
	GatewayURL    string `env:"PAYMENT_GATEWAY_URL"`
	StoreID       string `env:"PAYMENT_STORE_ID"`
	StorePassword string `env:"PAYMENT_STORE_PASSWORD"`
	Currency      string `env:"PAYMENT_CURRENCY,default=BDT"`
}

// MailConfig enables notification emails when every field is set.
type MailConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     string `env:"SMTP_PORT,default=587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM"`
}

const devSessionSecret = "secret_key_change_me"

// Load reads .env (if any) and decodes the environment into a Config.
func Load() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if cfg.SessionSecret == "" && cfg.GinMode != "release" {
		cfg.SessionSecret = devSessionSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required in release mode")
	}
	if c.VoteTimeout <= 0 {
		return errors.New("VOTE_TIMEOUT must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// loadDotEnv tries the working directory and its parent, so the server runs
// from either the repo root or cmd/server.
func loadDotEnv() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err != nil {
				log.WithError(err).Warnf("failed to load %s", p)
			}
			return
		}
	}
	log.Debug("No .env file found, using environment variables")
}
