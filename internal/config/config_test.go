package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8081" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.SyncBatchSize != 10 {
		t.Errorf("batch size = %d", cfg.SyncBatchSize)
	}
	if cfg.SyncInterval != 30*time.Second {
		t.Errorf("interval = %v", cfg.SyncInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SYNC_BATCH_SIZE", "50")
	t.Setenv("SYNC_INTERVAL", "2m")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.SyncBatchSize != 50 {
		t.Errorf("batch size = %d", cfg.SyncBatchSize)
	}
	if cfg.SyncInterval != 2*time.Minute {
		t.Errorf("interval = %v", cfg.SyncInterval)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Port:          "notaport",
		SQLiteDBPath:  "./data/test.db",
		AMQPURL:       "http://not-amqp",
		SyncBatchSize: 0,
		SyncInterval:  time.Millisecond,
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"invalid port", "AMQP URL scheme", "sync batch size", "sync interval"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}
