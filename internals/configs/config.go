package configs

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// =======================
// APP CONFIG
// =======================

type AppConfig struct {
	AppEnv string `env:"APP_ENV" envDefault:"local" validate:"oneof=local staging production test"`
	Port   string `env:"PORT" envDefault:"3000" validate:"required,numeric"`

	DBUser     string `env:"DB_USER" validate:"required"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" validate:"required"`
	DBPort     string `env:"DB_PORT" envDefault:"5432" validate:"required,numeric"`
	DBName     string `env:"DB_NAME" validate:"required"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"require" validate:"oneof=disable allow prefer require verify-ca verify-full"`

	JWTSecret      string `env:"JWT_SECRET" validate:"required"`
	RedisURL       string `env:"REDIS_URL"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	SchoolTimezone string `env:"SCHOOL_TIMEZONE" envDefault:"Africa/Johannesburg" validate:"timezone"`

	// Principal hub tuning
	HubDedupWindow    time.Duration `env:"PRINCIPAL_HUB_DEDUP_WINDOW" envDefault:"2s" validate:"gte=0"`
	HubEntryTTL       time.Duration `env:"PRINCIPAL_HUB_ENTRY_TTL" envDefault:"30m" validate:"gt=0"`
	HubFetchTimeout   time.Duration `env:"PRINCIPAL_HUB_FETCH_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	HubTeacherWorkers int           `env:"PRINCIPAL_HUB_TEACHER_WORKERS" envDefault:"4" validate:"gte=1,lte=32"`
	HubReaperSpec     string        `env:"PRINCIPAL_HUB_REAPER_SPEC" envDefault:"@every 5m" validate:"required"`
}

// IsLocal reports whether the service runs on a developer machine.
func (c AppConfig) IsLocal() bool { return c.AppEnv == "local" || c.AppEnv == "test" }

// DSN builds the postgres URL; statement_timeout keeps a single slow query
// from holding the dashboard past the HTTP timeout guard.
func (c AppConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=edudash&options=-c statement_timeout=3000",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

var validate = validator.New()

// =======================
// ENV LOADER
// =======================

// LoadEnv loads .env (outside Railway) and parses the typed config.
func LoadEnv() (AppConfig, error) {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Warn().Msg("⚠️ .env not found, using system environment")
		} else {
			log.Info().Msg("✅ .env loaded")
		}
	} else {
		log.Info().Msg("🚀 Running in Railway, using system environment")
	}

	return ParseConfig()
}

// ParseConfig reads AppConfig from the process environment and validates it.
func ParseConfig() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
