package testfixtures_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/timeclock/internal/application"
	"github.com/example/timeclock/internal/testfixtures"
)

func TestServiceFactory(t *testing.T) {
	t.Parallel()

	t.Run("services share the factory clock and store", func(t *testing.T) {
		t.Parallel()

		factory := testfixtures.NewServiceFactory()
		testfixtures.SeedLedger(t, factory.Store, "rafael")
		svc := factory.NewLedgerService(nil, nil)

		ack, err := svc.Record(context.Background(), "rafael", application.ClockIn)
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if ack.Date != testfixtures.ReferenceDate() {
			t.Fatalf("expected the factory clock's date, got %s", ack.Date)
		}
		if factory.Store.RowCount("rafael") != 2 {
			t.Fatal("expected the event in the factory store")
		}
	})

	t.Run("options override the defaults", func(t *testing.T) {
		t.Parallel()

		clock := testfixtures.NewClock(time.Date(2025, time.January, 2, 10, 0, 0, 0, time.Local))
		store := testfixtures.NewRowStore()
		factory := testfixtures.NewServiceFactory(testfixtures.WithClock(clock), testfixtures.WithStore(store))

		if factory.Clock != clock || factory.Store != store {
			t.Fatal("expected the supplied clock and store to be used")
		}

		testfixtures.SeedLedger(t, factory.Store, "rafael")
		ack, err := factory.NewLedgerService(nil, nil).Record(context.Background(), "rafael", application.ClockIn)
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if ack.Date != "02/01/2025" {
			t.Fatalf("expected the overridden clock's date, got %s", ack.Date)
		}
	})
}

func TestSeedHelpers(t *testing.T) {
	t.Parallel()

	t.Run("seed ledger is idempotent", func(t *testing.T) {
		t.Parallel()

		store := testfixtures.NewRowStore()
		testfixtures.SeedLedger(t, store, "rafael")
		testfixtures.SeedLedger(t, store, "rafael")

		if store.RowCount("rafael") != 1 {
			t.Fatalf("expected a single header row, got %d", store.RowCount("rafael"))
		}
	})

	t.Run("seed full day produces one event per kind", func(t *testing.T) {
		t.Parallel()

		factory := testfixtures.NewServiceFactory()
		testfixtures.SeedLedger(t, factory.Store, "rafael")
		testfixtures.SeedFullDay(t, factory.Store, "rafael", testfixtures.ReferenceDate())

		status, err := factory.NewLedgerService(nil, nil).StatusToday(context.Background(), "rafael")
		if err != nil {
			t.Fatalf("StatusToday failed: %v", err)
		}
		for _, kind := range application.Kinds() {
			if !status[kind] {
				t.Fatalf("expected %s to be recorded", kind.Label())
			}
		}
	})
}
