package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/timeclock/internal/application"
	"github.com/example/timeclock/internal/persistence"
)

var referenceTime = time.Date(2024, time.March, 15, 8, 30, 0, 0, time.Local)

// ReferenceTime returns the canonical baseline timestamp used by fixtures:
// a weekday morning, the moment an employee would clock in.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns ReferenceTime formatted as a ledger calendar day.
func ReferenceDate() string {
	return referenceTime.Format(application.DateLayout)
}

// ReferencePeriod returns ReferenceTime's year-month in report format.
func ReferencePeriod() string {
	return referenceTime.Format(application.MonthLayout)
}

// SeedLedger creates the principal's partition in the store with the header
// row, failing the test on error.
func SeedLedger(tb testing.TB, store *RowStore, principal string) {
	tb.Helper()

	partition, created, err := store.OpenOrCreatePartition(context.Background(), principal)
	if err != nil {
		tb.Fatalf("failed to create partition: %v", err)
	}
	if !created {
		return
	}
	if err := store.AppendRow(context.Background(), partition, application.LedgerHeader()); err != nil {
		tb.Fatalf("failed to write header row: %v", err)
	}
}

// SeedEvent appends one column-per-kind event row for the principal,
// failing the test on error.
func SeedEvent(tb testing.TB, store *RowStore, principal, date, timeOfDay string, kind application.EventKind) {
	tb.Helper()

	header := application.LedgerHeader()
	row := make([]string, len(header))
	row[0] = principal
	row[1] = date
	row[len(row)-1] = kind.Label()
	for i, field := range header {
		if field == kind.Column() {
			row[i] = timeOfDay
		}
	}

	if err := store.AppendRow(context.Background(), persistence.Partition{Name: principal}, row); err != nil {
		tb.Fatalf("failed to append event row: %v", err)
	}
}

// SeedFullDay records all four kinds for the principal on the given date
// with plausible times.
func SeedFullDay(tb testing.TB, store *RowStore, principal, date string) {
	tb.Helper()

	SeedEvent(tb, store, principal, date, "08:30:00", application.ClockIn)
	SeedEvent(tb, store, principal, date, "12:00:00", application.LunchStart)
	SeedEvent(tb, store, principal, date, "13:00:00", application.LunchEnd)
	SeedEvent(tb, store, principal, date, "18:00:00", application.ClockOut)
}
