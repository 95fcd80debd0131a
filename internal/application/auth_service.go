package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// AuthService is the identity gate: it validates presented credentials
// through a pluggable checker and yields an authenticated principal plus an
// access token for transports that need one.
type AuthService struct {
	checker CredentialChecker
	tokens  TokenIssuer
	now     func() time.Time
	logger  *slog.Logger
}

// NewAuthService constructs an AuthService. The token issuer may be nil for
// drivers that authenticate in-process and never hand out tokens.
func NewAuthService(checker CredentialChecker, tokens TokenIssuer, now func() time.Time) *AuthService {
	return NewAuthServiceWithLogger(checker, tokens, now, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(checker CredentialChecker, tokens TokenIssuer, now func() time.Time, logger *slog.Logger) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		checker: checker,
		tokens:  tokens,
		now:     now,
		logger:  defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Authenticate validates the credentials and returns the authenticated
// principal. There is no retry and no session state: a failed attempt is
// surfaced immediately as ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, creds Credentials) (result AuthenticateResult, err error) {
	if s == nil || s.checker == nil {
		err = fmt.Errorf("credential checker not configured")
		return
	}

	principal := strings.TrimSpace(creds.Principal)

	logger := s.loggerWith(ctx, "Authenticate", "principal", principal)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "authentication succeeded")
	}()

	if principal == "" || creds.Secret == "" {
		err = ErrInvalidCredentials
		return
	}

	if err = s.checker.Check(ctx, principal, creds.Secret); err != nil {
		return
	}

	result.Principal = Principal{Name: principal}
	if s.tokens != nil {
		result.Token, result.ExpiresAt, err = s.tokens.Issue(principal, s.now())
		if err != nil {
			err = fmt.Errorf("issue access token: %w", err)
			result = AuthenticateResult{}
			return
		}
	}
	return
}

// VerifyToken resolves an access token back to its principal.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (Principal, error) {
	if s == nil || s.tokens == nil {
		return Principal{}, ErrInvalidToken
	}
	name, err := s.tokens.Verify(token, s.now())
	if err != nil {
		s.loggerWith(ctx, "VerifyToken").ErrorContext(ctx, "token rejected", "error", err, "error_kind", ErrorKind(err))
		return Principal{}, err
	}
	return Principal{Name: name}, nil
}
