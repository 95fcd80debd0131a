package application_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/example/timeclock/internal/application"
)

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "invalid credentials", err: application.ErrInvalidCredentials, want: "invalid_credentials"},
		{name: "wrapped store unavailable", err: fmt.Errorf("read ledger: %w", application.ErrStoreUnavailable), want: "store_unavailable"},
		{name: "empty report", err: application.ErrEmptyReport, want: "empty_report"},
		{name: "invalid token", err: application.ErrInvalidToken, want: "invalid_token"},
		{name: "duplicate event", err: &application.DuplicateError{Kind: application.ClockIn, Date: "15/03/2024"}, want: "duplicate_event"},
		{name: "validation", err: &application.ValidationError{}, want: "validation"},
		{name: "other", err: errors.New("boom"), want: "unexpected"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := application.ErrorKind(tc.err); got != tc.want {
				t.Fatalf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}

func TestDuplicateError_Message(t *testing.T) {
	t.Parallel()

	err := &application.DuplicateError{Kind: application.LunchStart, Date: "15/03/2024"}
	want := `event "Início Almoço" already recorded on 15/03/2024`
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestValidationError_HasErrors(t *testing.T) {
	t.Parallel()

	var empty *application.ValidationError
	if empty.HasErrors() {
		t.Fatal("nil ValidationError should report no errors")
	}

	withField := &application.ValidationError{FieldErrors: map[string]string{"principal": "principal is required"}}
	if !withField.HasErrors() {
		t.Fatal("expected HasErrors to be true")
	}
}
