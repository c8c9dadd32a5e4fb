package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Daemon is the reformd configuration.
type Daemon struct {
	DBPath           string        `env:"REFORM_DB"                envDefault:"reform.db"`
	GRPCAddr         string        `env:"REFORM_GRPC_ADDR"         envDefault:":50061"`
	MetricsAddr      string        `env:"REFORM_METRICS_ADDR"      envDefault:":9464"`
	WeightsFile      string        `env:"REFORM_WEIGHTS_FILE"`
	Debug            bool          `env:"REFORM_DEBUG"`
	RequireThreshold bool          `env:"REFORM_REQUIRE_THRESHOLD" envDefault:"true"`
	ShutdownTimeout  time.Duration `env:"REFORM_SHUTDOWN_TIMEOUT"  envDefault:"10s"`
}

// LoadDaemon reads the reformd configuration from the environment.
func LoadDaemon() (Daemon, error) {
	var cfg Daemon
	if err := ParseEnv(&cfg); err != nil {
		return Daemon{}, err
	}
	return cfg, nil
}
