package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/example/timeclock/internal/config"
)

// clearEnv unsets every configuration variable so t.Setenv can rebuild just
// the ones a case needs.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"TIMECLOCK_HTTP_PORT",
		"TIMECLOCK_STORE",
		"TIMECLOCK_SQLITE_DSN",
		"TIMECLOCK_WORKBOOK",
		"TIMECLOCK_TOKEN_SECRET",
		"TIMECLOCK_TOKEN_TTL",
		"TIMECLOCK_USERS_FILE",
		"TIMECLOCK_ALLOW_SELF_EQUALITY",
		"TIMECLOCK_REPORT_DIR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults when only the secret is set", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMECLOCK_TOKEN_SECRET", "s3cret")

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.Store != config.StoreSQLite {
			t.Fatalf("expected default store sqlite, got %q", cfg.Store)
		}
		if cfg.SQLiteDSN != "file:ponto.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.TokenTTL != 12*time.Hour {
			t.Fatalf("expected default TTL 12h, got %v", cfg.TokenTTL)
		}
		if cfg.ReportDir != "." {
			t.Fatalf("expected default report dir, got %q", cfg.ReportDir)
		}
	})

	t.Run("reads explicit values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMECLOCK_TOKEN_SECRET", "s3cret")
		t.Setenv("TIMECLOCK_HTTP_PORT", "9090")
		t.Setenv("TIMECLOCK_STORE", config.StoreWorkbook)
		t.Setenv("TIMECLOCK_WORKBOOK", "/data/ponto.xlsx")
		t.Setenv("TIMECLOCK_TOKEN_TTL", "30m")
		t.Setenv("TIMECLOCK_USERS_FILE", "/etc/timeclock/users.json")
		t.Setenv("TIMECLOCK_ALLOW_SELF_EQUALITY", "true")
		t.Setenv("TIMECLOCK_REPORT_DIR", "/var/reports")

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if cfg.HTTPPort != 9090 || cfg.Store != config.StoreWorkbook || cfg.WorkbookPath != "/data/ponto.xlsx" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
		if cfg.TokenTTL != 30*time.Minute || cfg.UsersFile != "/etc/timeclock/users.json" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
		if !cfg.AllowSelfEquality || cfg.ReportDir != "/var/reports" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
	})

	t.Run("requires the token secret", func(t *testing.T) {
		clearEnv(t)

		_, err := config.Load()
		if err == nil {
			t.Fatal("expected an error without TIMECLOCK_TOKEN_SECRET")
		}
		if !strings.Contains(err.Error(), "TIMECLOCK_TOKEN_SECRET") {
			t.Fatalf("expected the missing variable to be named, got %v", err)
		}
	})

	t.Run("requires the workbook path for the xlsx store", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMECLOCK_TOKEN_SECRET", "s3cret")
		t.Setenv("TIMECLOCK_STORE", config.StoreWorkbook)

		_, err := config.Load()
		if err == nil || !strings.Contains(err.Error(), "TIMECLOCK_WORKBOOK") {
			t.Fatalf("expected TIMECLOCK_WORKBOOK to be reported missing, got %v", err)
		}
	})

	t.Run("accumulates invalid values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TIMECLOCK_TOKEN_SECRET", "s3cret")
		t.Setenv("TIMECLOCK_HTTP_PORT", "not-a-port")
		t.Setenv("TIMECLOCK_TOKEN_TTL", "-5m")
		t.Setenv("TIMECLOCK_STORE", "gsheets")

		_, err := config.Load()
		if err == nil {
			t.Fatal("expected an error for invalid values")
		}
		for _, name := range []string{"TIMECLOCK_HTTP_PORT", "TIMECLOCK_TOKEN_TTL", "TIMECLOCK_STORE"} {
			if !strings.Contains(err.Error(), name) {
				t.Fatalf("expected %s to be reported, got %v", name, err)
			}
		}
	})
}
