package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/timeclock/internal/persistence"
)

// LedgerService is the attendance ledger façade: a stateless guard over the
// row store that enforces the one-event-per-kind-per-day rule. The store is
// the source of truth; every operation reads it fresh.
type LedgerService struct {
	store  persistence.RowStore
	now    func() time.Time
	logger *slog.Logger

	// Record serializes per principal so the check-then-append sequence is
	// exactly-once within this process. Other processes sharing the same
	// store can still race; the store offers no conditional append.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewLedgerService constructs a LedgerService over the given row store.
func NewLedgerService(store persistence.RowStore, now func() time.Time) *LedgerService {
	return NewLedgerServiceWithLogger(store, now, nil)
}

// NewLedgerServiceWithLogger constructs a LedgerService with a specified logger.
func NewLedgerServiceWithLogger(store persistence.RowStore, now func() time.Time, logger *slog.Logger) *LedgerService {
	if now == nil {
		now = time.Now
	}
	return &LedgerService{
		store:  store,
		now:    now,
		logger: defaultLogger(logger),
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *LedgerService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "LedgerService", operation, attrs...)
}

func (s *LedgerService) principalLock(principal string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.locks[principal]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[principal] = lock
	}
	return lock
}

func validatePrincipal(principal string) error {
	if principal == "" {
		vErr := &ValidationError{}
		vErr.add("principal", "principal is required")
		return vErr
	}
	return nil
}

// EnsureLedger locates or creates the principal's partition. On creation it
// writes the fixed header row; calling it again is a no-op.
func (s *LedgerService) EnsureLedger(ctx context.Context, principal string) error {
	if err := validatePrincipal(principal); err != nil {
		return err
	}

	logger := s.loggerWith(ctx, "EnsureLedger", "principal", principal)

	partition, created, err := s.store.OpenOrCreatePartition(ctx, principal)
	if err != nil {
		logger.ErrorContext(ctx, "failed to open partition", "error", err)
		return storeError("open partition", err)
	}
	if !created {
		return nil
	}

	if err := s.store.AppendRow(ctx, partition, LedgerHeader()); err != nil {
		logger.ErrorContext(ctx, "failed to write header row", "error", err)
		return storeError("write header row", err)
	}
	logger.InfoContext(ctx, "ledger created")
	return nil
}

// HasRecorded reports whether an event of the given kind exists for the
// principal on the given calendar day. The date must be formatted with
// DateLayout; comparison is exact string equality against stored rows.
func (s *LedgerService) HasRecorded(ctx context.Context, principal, date string, kind EventKind) (bool, error) {
	if err := validatePrincipal(principal); err != nil {
		return false, err
	}

	records, err := s.readRecords(ctx, principal)
	if err != nil {
		return false, err
	}
	return matchRecorded(records, principal, date, kind), nil
}

// Record appends one attendance event for the principal at the service's
// current time. A second event of the same kind on the same calendar day is
// rejected with *DuplicateError and nothing is written. The returned Ack
// carries the refreshed day status so UIs can update without re-querying.
func (s *LedgerService) Record(ctx context.Context, principal string, kind EventKind) (Ack, error) {
	if err := validatePrincipal(principal); err != nil {
		return Ack{}, err
	}
	if kind.Column() == "" {
		vErr := &ValidationError{}
		vErr.add("kind", "unknown event kind")
		return Ack{}, vErr
	}

	now := s.now()
	date := now.Format(DateLayout)
	timeOfDay := now.Format(TimeLayout)

	logger := s.loggerWith(ctx, "Record",
		"principal", principal,
		"kind", kind.Label(),
		"date", date,
	)

	lock := s.principalLock(principal)
	lock.Lock()
	defer lock.Unlock()

	records, err := s.readRecords(ctx, principal)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read ledger", "error", err)
		return Ack{}, err
	}

	if matchRecorded(records, principal, date, kind) {
		logger.InfoContext(ctx, "duplicate event rejected")
		return Ack{}, &DuplicateError{Kind: kind, Date: date}
	}

	row := eventRow(principal, date, timeOfDay, kind)
	if err := s.store.AppendRow(ctx, persistence.Partition{Name: principal}, row); err != nil {
		logger.ErrorContext(ctx, "failed to append event row", "error", err)
		return Ack{}, storeError("append event row", err)
	}

	status := statusFromRecords(records, principal, date)
	status[kind] = true

	logger.InfoContext(ctx, "event recorded", "time", timeOfDay)
	return Ack{Kind: kind, Date: date, Time: timeOfDay, Status: status}, nil
}

// StatusToday returns the per-kind recorded state for the principal on the
// current calendar day. Built from a single full read; the mapping as a
// whole is not an atomic snapshot across concurrent writers.
func (s *LedgerService) StatusToday(ctx context.Context, principal string) (DayStatus, error) {
	if err := validatePrincipal(principal); err != nil {
		return nil, err
	}

	date := s.now().Format(DateLayout)
	records, err := s.readRecords(ctx, principal)
	if err != nil {
		return nil, err
	}
	return statusFromRecords(records, principal, date), nil
}

// ReadEvents reconstructs every attendance event of the principal's ledger
// in append order. Rows whose kind label is unknown are skipped.
func (s *LedgerService) ReadEvents(ctx context.Context, principal string) ([]AttendanceEvent, error) {
	if err := validatePrincipal(principal); err != nil {
		return nil, err
	}

	records, err := s.readRecords(ctx, principal)
	if err != nil {
		return nil, err
	}

	events := make([]AttendanceEvent, 0, len(records))
	for _, record := range records {
		kind, ok := ParseEventKind(record["Tipo"])
		if !ok {
			continue
		}
		events = append(events, AttendanceEvent{
			Principal: record["Usuário"],
			Date:      record["Data"],
			Kind:      kind,
			Time:      record[kind.Column()],
		})
	}
	return events, nil
}

func (s *LedgerService) readRecords(ctx context.Context, principal string) ([]persistence.Record, error) {
	records, err := s.store.ReadAllRows(ctx, persistence.Partition{Name: principal})
	if err != nil {
		return nil, storeError("read ledger rows", err)
	}
	return records, nil
}

func matchRecorded(records []persistence.Record, principal, date string, kind EventKind) bool {
	for _, record := range records {
		if record["Usuário"] == principal && record["Data"] == date && record["Tipo"] == kind.Label() {
			return true
		}
	}
	return false
}

func statusFromRecords(records []persistence.Record, principal, date string) DayStatus {
	status := make(DayStatus, len(Kinds()))
	for _, kind := range Kinds() {
		status[kind] = matchRecorded(records, principal, date, kind)
	}
	return status
}

// eventRow builds the column-per-kind row: the time-of-day lands in the
// kind's own column, the other kind columns stay blank.
func eventRow(principal, date, timeOfDay string, kind EventKind) []string {
	header := LedgerHeader()
	row := make([]string, len(header))
	row[0] = principal
	row[1] = date
	row[len(row)-1] = kind.Label()
	for i, field := range header {
		if field == kind.Column() {
			row[i] = timeOfDay
		}
	}
	return row
}

func storeError(operation string, err error) error {
	if err == nil {
		return nil
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, operation, err)
}
