package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`

	JWTExpiryHours     int    `env:"JWT_EXPIRY_HOURS" envDefault:"24"`
	PaymentLinkBaseURL string `env:"PAYMENT_LINK_BASE_URL" envDefault:"https://flyzoneairlines.com"`
	PaymentLinkTTLDays int    `env:"PAYMENT_LINK_TTL_DAYS" envDefault:"7"`

	// Declining a Transfer re-credits the sender's pre-debited balance
	// only when this is set. Off by default to match the legacy system,
	// which left declined transfers debited.
	RecreditDeclinedTransfers bool `env:"RECREDIT_DECLINED_TRANSFERS" envDefault:"false"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

func (c *Config) PaymentLinkTTL() time.Duration {
	return time.Duration(c.PaymentLinkTTLDays) * 24 * time.Hour
}
