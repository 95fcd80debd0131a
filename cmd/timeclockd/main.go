// Command timeclockd serves the time-clock HTTP API: login, punch
// recording, per-day status and monthly extracts over a shared row store.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/example/timeclock/internal/application"
	"github.com/example/timeclock/internal/config"
	httptransport "github.com/example/timeclock/internal/http"
	"github.com/example/timeclock/internal/logging"
	"github.com/example/timeclock/internal/persistence"
	"github.com/example/timeclock/internal/persistence/sqlite"
	"github.com/example/timeclock/internal/persistence/xlsx"
)

type rowStore interface {
	persistence.RowStore
	Close() error
}

func main() {
	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open row store", "error", err, "backend", cfg.Store)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close row store", "error", cerr)
		}
	}()

	checker, err := buildChecker(cfg, logger)
	if err != nil {
		logger.Error("failed to configure credential checker", "error", err)
		os.Exit(1)
	}

	issuer := application.NewJWTIssuer([]byte(cfg.TokenSecret), cfg.TokenTTL)

	authService := application.NewAuthServiceWithLogger(checker, issuer, time.Now, logger)
	ledgerService := application.NewLedgerServiceWithLogger(store, time.Now, logger)
	reportService := application.NewReportServiceWithLogger(ledgerService, application.DefaultPageLayout, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:    httptransport.NewAuthHandler(authService, ledgerService, logger),
		Punches: httptransport.NewPunchHandler(ledgerService, logger),
		Reports: httptransport.NewReportHandler(reportService, logger),
	})

	protected := httptransport.RequireToken(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.URL.Path, "/sessions") || strings.EqualFold(r.URL.Path, "/healthz") {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("time-clock API listening", "addr", server.Addr, "store", cfg.Store)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg config.Config) (rowStore, error) {
	switch cfg.Store {
	case config.StoreWorkbook:
		return xlsx.Open(cfg.WorkbookPath)
	default:
		store, err := sqlite.Open(cfg.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(context.Background()); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	}
}

func buildChecker(cfg config.Config, logger *slog.Logger) (application.CredentialChecker, error) {
	if cfg.UsersFile != "" {
		return application.LoadAllowlist(cfg.UsersFile)
	}
	if cfg.AllowSelfEquality {
		logger.Warn("self-equality credential stub enabled; do not use in production")
		return application.SelfEqualityChecker{}, nil
	}
	return nil, errors.New("defina TIMECLOCK_USERS_FILE ou habilite TIMECLOCK_ALLOW_SELF_EQUALITY")
}
