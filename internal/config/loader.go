package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends selectable through TIMECLOCK_STORE.
const (
	StoreSQLite   = "sqlite"
	StoreWorkbook = "xlsx"
)

// Config captures environment driven configuration values for the time-clock
// service and CLI.
type Config struct {
	HTTPPort          int
	Store             string
	SQLiteDSN         string
	WorkbookPath      string
	TokenSecret       string
	TokenTTL          time.Duration
	UsersFile         string
	AllowSelfEquality bool
	ReportDir         string
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to sensible defaults; required values and
// malformed entries are accumulated and reported together.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:  8080,
		Store:     StoreSQLite,
		SQLiteDSN: "file:ponto.db?_foreign_keys=on",
		TokenTTL:  12 * time.Hour,
		ReportDir: ".",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("TIMECLOCK_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "TIMECLOCK_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if store := strings.TrimSpace(os.Getenv("TIMECLOCK_STORE")); store != "" {
		switch store {
		case StoreSQLite, StoreWorkbook:
			cfg.Store = store
		default:
			invalid = append(invalid, "TIMECLOCK_STORE")
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("TIMECLOCK_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if path := strings.TrimSpace(os.Getenv("TIMECLOCK_WORKBOOK")); path != "" {
		cfg.WorkbookPath = path
	} else if cfg.Store == StoreWorkbook {
		missing = append(missing, "TIMECLOCK_WORKBOOK")
	}

	if secret := strings.TrimSpace(os.Getenv("TIMECLOCK_TOKEN_SECRET")); secret == "" {
		missing = append(missing, "TIMECLOCK_TOKEN_SECRET")
	} else {
		cfg.TokenSecret = secret
	}

	if ttlValue := strings.TrimSpace(os.Getenv("TIMECLOCK_TOKEN_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "TIMECLOCK_TOKEN_TTL")
		} else {
			cfg.TokenTTL = ttl
		}
	}

	cfg.UsersFile = strings.TrimSpace(os.Getenv("TIMECLOCK_USERS_FILE"))

	if allowValue := strings.TrimSpace(os.Getenv("TIMECLOCK_ALLOW_SELF_EQUALITY")); allowValue != "" {
		allow, err := strconv.ParseBool(allowValue)
		if err != nil {
			invalid = append(invalid, "TIMECLOCK_ALLOW_SELF_EQUALITY")
		} else {
			cfg.AllowSelfEquality = allow
		}
	}

	if dir := strings.TrimSpace(os.Getenv("TIMECLOCK_REPORT_DIR")); dir != "" {
		cfg.ReportDir = dir
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("variáveis de ambiente obrigatórias ausentes: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("variáveis de ambiente com valores inválidos: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
