package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/timeclock/internal/application"
	"github.com/example/timeclock/internal/persistence"
)

// ServiceFactory assists tests with constructing application services over a
// shared deterministic clock and in-memory row store.
type ServiceFactory struct {
	Clock *Clock
	Store *RowStore
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock: NewClock(time.Time{}),
		Store: NewRowStore(),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.Store == nil {
		factory.Store = NewRowStore()
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithStore overrides the row store used by the factory.
func WithStore(store *RowStore) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Store = store
	}
}

// NewLedgerService builds a ledger service over the factory's store and
// clock. A non-nil store argument overrides the factory store.
func (f *ServiceFactory) NewLedgerService(store persistence.RowStore, logger *slog.Logger) *application.LedgerService {
	if store == nil {
		store = f.Store
	}
	return application.NewLedgerServiceWithLogger(store, f.Clock.NowFunc(), logger)
}

// NewReportService builds a report service reading through the given ledger.
// A zero layout falls back to the default page layout.
func (f *ServiceFactory) NewReportService(ledger application.LedgerReader, layout application.PageLayout, logger *slog.Logger) *application.ReportService {
	if ledger == nil {
		ledger = f.NewLedgerService(nil, logger)
	}
	return application.NewReportServiceWithLogger(ledger, layout, logger)
}

// NewAuthService builds an auth service with the supplied checker and an
// optional token issuer.
func (f *ServiceFactory) NewAuthService(checker application.CredentialChecker, tokens application.TokenIssuer, logger *slog.Logger) *application.AuthService {
	return application.NewAuthServiceWithLogger(checker, tokens, f.Clock.NowFunc(), logger)
}
