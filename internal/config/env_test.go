package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port int `env:"REFORM_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("REFORM_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadDaemonDefaults(t *testing.T) {
	cfg, err := LoadDaemon()
	if err != nil {
		t.Fatalf("LoadDaemon: %v", err)
	}
	want := Daemon{
		DBPath:           "reform.db",
		GRPCAddr:         ":50061",
		MetricsAddr:      ":9464",
		RequireThreshold: true,
		ShutdownTimeout:  10 * time.Second,
	}
	if cfg != want {
		t.Fatalf("expected %+v, got %+v", want, cfg)
	}
}

func TestLoadDaemonOverrides(t *testing.T) {
	t.Setenv("REFORM_DB", "/tmp/x.db")
	t.Setenv("REFORM_DEBUG", "true")
	t.Setenv("REFORM_WEIGHTS_FILE", "weights.yaml")
	t.Setenv("REFORM_REQUIRE_THRESHOLD", "false")

	cfg, err := LoadDaemon()
	if err != nil {
		t.Fatalf("LoadDaemon: %v", err)
	}
	if cfg.DBPath != "/tmp/x.db" || !cfg.Debug || cfg.WeightsFile != "weights.yaml" || cfg.RequireThreshold {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}
