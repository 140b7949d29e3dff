package db

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type PostgresConfig struct {
	Host            string        `envconfig:"HOST" default:"localhost"`
	Port            int           `envconfig:"PORT" default:"5432"`
	User            string        `envconfig:"USER" default:"postgres"`
	Password        string        `envconfig:"PASSWORD"`
	DBName          string        `envconfig:"NAME" default:"billing"`
	SSLMode         string        `envconfig:"SSLMODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
}

// LoadPostgresConfig reads DB_* variables.
func LoadPostgresConfig() (PostgresConfig, error) {
	var cfg PostgresConfig
	err := envconfig.Process("db", &cfg)
	return cfg, err
}
