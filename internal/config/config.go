// Package config loads service settings from BILLING_* environment
// variables.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Cheertaboi/loyalty-billing-service/pkg/db"
)

const envPrefix = "billing"

type Config struct {
	HTTP       HTTPConfig
	Log        LogConfig
	DB         db.PostgresConfig
	Loyalty    LoyaltyConfig
	Settlement SettlementConfig
	Notify     NotifyConfig
	Cache      CacheConfig
}

type HTTPConfig struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

type LoyaltyConfig struct {
	// DefaultRole is assigned to customers registered without a role.
	DefaultRole string `envconfig:"DEFAULT_ROLE" default:"regular"`
}

type SettlementConfig struct {
	MaxRetries  int    `envconfig:"MAX_RETRIES" default:"3"`
	SalesMadeBy string `envconfig:"SALES_MADE_BY" default:"admin"`
}

type NotifyConfig struct {
	WebhookURL   string        `envconfig:"WEBHOOK_URL"`
	WebhookToken string        `envconfig:"WEBHOOK_TOKEN"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"5s"`
	MaxRetries   int           `envconfig:"MAX_RETRIES" default:"2"`
	QueueSize    int           `envconfig:"QUEUE_SIZE" default:"100"`
}

type CacheConfig struct {
	TTL time.Duration `envconfig:"TTL" default:"5m"`
}

// Load reads the configuration, e.g. BILLING_HTTP_ADDR or BILLING_DB_HOST.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
