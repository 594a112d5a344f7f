package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadWithDefaults_Succeeds(t *testing.T) {
	// Ensure envs are clean to use defaults
	for _, k := range []string{"DB_PATH", "GRPC_ADDRESS", "JWT_SECRET", "PAYOUT_BATCH_SIZE", "RETURN_WINDOW_DAYS", "LOCATION_FRESHNESS_SEC"} {
		os.Unsetenv(k)
	}
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.GRPC.Address == "" || cfg.Database.Path == "" || cfg.Auth.JWTSecret == "" {
		t.Fatalf("unexpected empty defaults: %+v", cfg)
	}
	if cfg.Ledger.PayoutBatchSize != 20 {
		t.Fatalf("batch size = %d, want 20", cfg.Ledger.PayoutBatchSize)
	}
	if cfg.Returns.Window != 7*24*time.Hour {
		t.Fatalf("return window = %v, want 168h", cfg.Returns.Window)
	}
	if cfg.Delivery.LocationFreshness != 60*time.Second {
		t.Fatalf("freshness = %v, want 60s", cfg.Delivery.LocationFreshness)
	}
	if cfg.Polling.OrderInterval != 15*time.Second || cfg.Polling.LocationInterval != 10*time.Second {
		t.Fatalf("unexpected poll intervals: %+v", cfg.Polling)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	// Clear JWT_SECRET ensures error
	os.Unsetenv("JWT_SECRET")
	t.Setenv("DB_PATH", "test.db")
	t.Setenv("GRPC_ADDRESS", ":1234")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is not set")
	}
	// When set, it should succeed
	t.Setenv("JWT_SECRET", "x")
	if _, err := Load(); err != nil {
		t.Fatalf("Load with secret set: %v", err)
	}
}

func TestLoad_RejectsBadNumbers(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("PAYOUT_BATCH_SIZE", "twenty")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric PAYOUT_BATCH_SIZE")
	}
	t.Setenv("PAYOUT_BATCH_SIZE", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero PAYOUT_BATCH_SIZE")
	}
}

func TestString_MasksSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "super-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.Contains(cfg.String(), "super-secret") {
		t.Fatalf("secret leaked in String(): %s", cfg.String())
	}
}
