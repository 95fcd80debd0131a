package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/timeclock/internal/application"
	"github.com/example/timeclock/internal/testfixtures"
)

type stubChecker struct {
	err       error
	principal string
	secret    string
	calls     int
}

func (c *stubChecker) Check(ctx context.Context, principal, secret string) error {
	c.calls++
	c.principal = principal
	c.secret = secret
	return c.err
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Parallel()

	t.Run("returns the trimmed principal on success", func(t *testing.T) {
		t.Parallel()

		checker := &stubChecker{}
		factory := testfixtures.NewServiceFactory()
		svc := factory.NewAuthService(checker, nil, nil)

		result, err := svc.Authenticate(context.Background(), application.Credentials{
			Principal: "  rafael  ",
			Secret:    "s3cret",
		})
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}

		if result.Principal.Name != "rafael" {
			t.Fatalf("expected principal rafael, got %q", result.Principal.Name)
		}
		if checker.principal != "rafael" || checker.secret != "s3cret" {
			t.Fatalf("checker received %q/%q", checker.principal, checker.secret)
		}
		if result.Token != "" {
			t.Fatalf("expected no token without an issuer, got %q", result.Token)
		}
	})

	t.Run("rejects empty principal or secret without consulting the checker", func(t *testing.T) {
		t.Parallel()

		for _, creds := range []application.Credentials{
			{Principal: "", Secret: "s3cret"},
			{Principal: "   ", Secret: "s3cret"},
			{Principal: "rafael", Secret: ""},
		} {
			checker := &stubChecker{}
			factory := testfixtures.NewServiceFactory()
			svc := factory.NewAuthService(checker, nil, nil)

			_, err := svc.Authenticate(context.Background(), creds)
			if !errors.Is(err, application.ErrInvalidCredentials) {
				t.Fatalf("credentials %+v: expected ErrInvalidCredentials, got %v", creds, err)
			}
			if checker.calls != 0 {
				t.Fatalf("credentials %+v: checker consulted %d times", creds, checker.calls)
			}
		}
	})

	t.Run("surfaces checker rejection", func(t *testing.T) {
		t.Parallel()

		checker := &stubChecker{err: application.ErrInvalidCredentials}
		factory := testfixtures.NewServiceFactory()
		svc := factory.NewAuthService(checker, nil, nil)

		_, err := svc.Authenticate(context.Background(), application.Credentials{Principal: "rafael", Secret: "wrong"})
		if !errors.Is(err, application.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("issues a token when an issuer is configured", func(t *testing.T) {
		t.Parallel()

		issuer := application.NewJWTIssuer([]byte("test-secret"), time.Hour)
		factory := testfixtures.NewServiceFactory()
		svc := factory.NewAuthService(&stubChecker{}, issuer, nil)

		result, err := svc.Authenticate(context.Background(), application.Credentials{Principal: "rafael", Secret: "s3cret"})
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}

		if result.Token == "" {
			t.Fatal("expected a token")
		}
		wantExpiry := testfixtures.ReferenceTime().Add(time.Hour)
		if !result.ExpiresAt.Equal(wantExpiry) {
			t.Fatalf("expected expiry %v, got %v", wantExpiry, result.ExpiresAt)
		}

		principal, err := svc.VerifyToken(context.Background(), result.Token)
		if err != nil {
			t.Fatalf("VerifyToken failed: %v", err)
		}
		if principal.Name != "rafael" {
			t.Fatalf("expected token principal rafael, got %q", principal.Name)
		}
	})
}

func TestAuthService_VerifyToken(t *testing.T) {
	t.Parallel()

	t.Run("rejects tokens when no issuer is configured", func(t *testing.T) {
		t.Parallel()

		factory := testfixtures.NewServiceFactory()
		svc := factory.NewAuthService(&stubChecker{}, nil, nil)

		if _, err := svc.VerifyToken(context.Background(), "anything"); !errors.Is(err, application.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		t.Parallel()

		issuer := application.NewJWTIssuer([]byte("test-secret"), time.Hour)
		factory := testfixtures.NewServiceFactory()
		svc := factory.NewAuthService(&stubChecker{}, issuer, nil)

		result, err := svc.Authenticate(context.Background(), application.Credentials{Principal: "rafael", Secret: "s3cret"})
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}

		factory.Clock.Advance(2 * time.Hour)

		if _, err := svc.VerifyToken(context.Background(), result.Token); !errors.Is(err, application.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
		}
	})
}
