package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/timeclock/internal/application"
)

type authService interface {
	Authenticate(ctx context.Context, creds application.Credentials) (application.AuthenticateResult, error)
}

type ledgerProvisioner interface {
	EnsureLedger(ctx context.Context, principal string) error
}

// AuthHandler exposes the login operation. A successful login also ensures
// the principal's ledger exists, so first login provisions it.
type AuthHandler struct {
	service   authService
	ledger    ledgerProvisioner
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(service authService, ledger ledgerProvisioner, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{service: service, ledger: ledger, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateSession", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal := strings.TrimSpace(req.Principal)
	logger := h.log(r.Context(), "CreateSession", "principal", principal)

	result, err := h.service.Authenticate(r.Context(), application.Credentials{
		Principal: principal,
		Secret:    req.Secret,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "authentication rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if h.ledger != nil {
		if err := h.ledger.EnsureLedger(r.Context(), result.Principal.Name); err != nil {
			logger.ErrorContext(r.Context(), "failed to ensure ledger", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
	}

	logger.InfoContext(r.Context(), "user authenticated")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, loginResponse{
		Principal: result.Principal.Name,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339Nano),
	})
}

type loginRequest struct {
	Principal string `json:"principal"`
	Secret    string `json:"secret"`
}

type loginResponse struct {
	Principal string `json:"principal"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}
