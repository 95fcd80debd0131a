package testfixtures_test

import (
	"testing"
	"time"

	"github.com/example/timeclock/internal/application"
	"github.com/example/timeclock/internal/testfixtures"
)

func TestClock(t *testing.T) {
	t.Parallel()

	t.Run("zero start falls back to the reference time", func(t *testing.T) {
		t.Parallel()

		clock := testfixtures.NewClock(time.Time{})
		if !clock.Now().Equal(testfixtures.ReferenceTime()) {
			t.Fatalf("expected %v, got %v", testfixtures.ReferenceTime(), clock.Now())
		}
	})

	t.Run("set and advance move the clock", func(t *testing.T) {
		t.Parallel()

		clock := testfixtures.NewClock(time.Time{})
		target := time.Date(2024, time.July, 1, 9, 0, 0, 0, time.Local)

		clock.Set(target)
		if !clock.Now().Equal(target) {
			t.Fatalf("expected %v after Set, got %v", target, clock.Now())
		}

		updated := clock.Advance(90 * time.Minute)
		if !updated.Equal(target.Add(90 * time.Minute)) {
			t.Fatalf("expected %v after Advance, got %v", target.Add(90*time.Minute), updated)
		}
	})

	t.Run("next day crosses the calendar boundary", func(t *testing.T) {
		t.Parallel()

		clock := testfixtures.NewClock(time.Time{})
		before := clock.Now().Format(application.DateLayout)
		clock.NextDay()
		after := clock.Now().Format(application.DateLayout)

		if before == after {
			t.Fatalf("expected a new calendar day, still on %s", after)
		}
		if got := clock.Now().Format(application.TimeLayout); got != testfixtures.ReferenceTime().Format(application.TimeLayout) {
			t.Fatalf("expected the time of day to stay put, got %s", got)
		}
	})

	t.Run("nil clock yields the wall clock", func(t *testing.T) {
		t.Parallel()

		var clock *testfixtures.Clock
		if clock.NowFunc() == nil {
			t.Fatal("expected a usable fallback func")
		}
	})
}
