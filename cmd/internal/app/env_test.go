package app

import (
	"testing"
	"time"
)

func TestEnvString(t *testing.T) {
	t.Setenv("WARDEN_TEST_STR", "  value  ")
	if got := EnvString("WARDEN_TEST_STR", "def"); got != "value" {
		t.Fatalf("EnvString=%q want=value", got)
	}
	if got := EnvString("WARDEN_TEST_STR_MISSING", "def"); got != "def" {
		t.Fatalf("EnvString missing=%q want=def", got)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("WARDEN_TEST_BOOL", "true")
	if !EnvBool("WARDEN_TEST_BOOL", false) {
		t.Fatalf("expected true")
	}

	t.Setenv("WARDEN_TEST_BOOL", "not-a-bool")
	if !EnvBool("WARDEN_TEST_BOOL", true) {
		t.Fatalf("invalid value must fall back to default")
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("WARDEN_TEST_INT", "42")
	if got := EnvInt("WARDEN_TEST_INT", 7); got != 42 {
		t.Fatalf("EnvInt=%d want=42", got)
	}

	t.Setenv("WARDEN_TEST_INT", "-1")
	if got := EnvInt("WARDEN_TEST_INT", 7); got != 7 {
		t.Fatalf("non-positive must fall back, got %d", got)
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("WARDEN_TEST_DUR", "250ms")
	if got := EnvDuration("WARDEN_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("EnvDuration=%v want=250ms", got)
	}

	t.Setenv("WARDEN_TEST_DUR", "0s")
	if got := EnvDuration("WARDEN_TEST_DUR", time.Second); got != time.Second {
		t.Fatalf("zero must fall back, got %v", got)
	}

	t.Setenv("WARDEN_TEST_DUR", "soon")
	if got := EnvDuration("WARDEN_TEST_DUR", time.Second); got != time.Second {
		t.Fatalf("invalid must fall back, got %v", got)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"WARDEN_HTTP_ADDR", "WARDEN_LOG_LEVEL", "WARDEN_LOG_FORMAT",
		"WARDEN_DATABASE_URL", "WARDEN_READINESS_REQUIRE_DB",
		"WARDEN_CHAIN_CONFIRM_DELAY",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.HTTPAddr != "0.0.0.0:8080" {
		t.Fatalf("HTTPAddr=%q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Fatalf("log defaults: level=%q format=%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.ReadinessRequireDB {
		t.Fatalf("readiness must not require DB by default")
	}
	if cfg.ChainConfirmDelay != 150*time.Millisecond {
		t.Fatalf("ChainConfirmDelay=%v", cfg.ChainConfirmDelay)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("WARDEN_HTTP_ADDR", "127.0.0.1:9999")
	t.Setenv("WARDEN_LOG_FORMAT", "pretty")
	t.Setenv("WARDEN_DB_MAX_CONNS", "25")
	t.Setenv("WARDEN_CHAIN_CONFIRM_DELAY", "5ms")

	cfg := LoadConfig()
	if cfg.HTTPAddr != "127.0.0.1:9999" {
		t.Fatalf("HTTPAddr=%q", cfg.HTTPAddr)
	}
	if cfg.LogFormat != "pretty" {
		t.Fatalf("LogFormat=%q", cfg.LogFormat)
	}
	if cfg.DBMaxConns != 25 {
		t.Fatalf("DBMaxConns=%d", cfg.DBMaxConns)
	}
	if cfg.ChainConfirmDelay != 5*time.Millisecond {
		t.Fatalf("ChainConfirmDelay=%v", cfg.ChainConfirmDelay)
	}
}
