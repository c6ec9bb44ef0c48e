package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env       string `env:"GRANTD_ENV" envDefault:"dev"`
	LogLevel  string `env:"GRANTD_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"GRANTD_LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"GRANTD_PORT" envDefault:"5000"`

	CodeTTL              time.Duration `env:"GRANTD_CODE_TTL" envDefault:"10m"`
	AccessTTL            time.Duration `env:"GRANTD_ACCESS_TTL" envDefault:"1h"`
	ShutdownGracePeriod  time.Duration `env:"GRANTD_SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"GRANTD_HOUSEKEEPING_INTERVAL" envDefault:"10m"`

	// ClientsJSON and UsersJSON override the demo fixtures with JSON-encoded
	// registrations. Secrets and passwords are given in plaintext and hashed
	// at load; see SeedFromConfig.
	ClientsJSON string `env:"GRANTD_CLIENTS"`
	UsersJSON   string `env:"GRANTD_USERS"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
