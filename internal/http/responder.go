package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/timeclock/internal/application"
)

var (
	errBadRequestBody = errors.New("formato de requisição inválido.")
	errMissingToken   = errors.New("informe o token de acesso.")
	errUnknownKind    = errors.New("tipo de ponto desconhecido.")
	errMissingPeriod  = errors.New("informe o período no formato MM-YYYY.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps application errors onto HTTP statuses and the
// Portuguese messages shown to users.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var dErr *application.DuplicateError
	var vErr *application.ValidationError

	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   "Usuário ou senha inválidos.",
		})
	case errors.Is(err, application.ErrInvalidToken):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_TOKEN",
			Message:   "Token de acesso inválido ou expirado. Faça login novamente.",
		})
	case errors.As(err, &dErr):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "PUNCH_DUPLICATE",
			Message:   "Você já marcou o ponto de " + dErr.Kind.Label() + " hoje!",
		})
	case errors.Is(err, application.ErrEmptyReport):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{
			ErrorCode: "REPORT_EMPTY",
			Message:   "Nenhum ponto registrado para este mês.",
		})
	case errors.Is(err, application.ErrStoreUnavailable):
		r.loggerFor(ctx).ErrorContext(ctx, "row store unavailable", "error", err)
		r.writeJSON(ctx, w, http.StatusBadGateway, errorResponse{
			ErrorCode: "STORE_UNAVAILABLE",
			Message:   "Não foi possível acessar a planilha de pontos. Tente novamente.",
		})
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			Message: "Dados inválidos.",
			Errors:  vErr.FieldErrors,
		})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "Erro interno do servidor."})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Requisição inválida."
	case http.StatusUnauthorized:
		return "Autenticação necessária."
	case http.StatusNotFound:
		return "Recurso não encontrado."
	case http.StatusConflict:
		return "A requisição conflita com o estado atual."
	case http.StatusUnprocessableEntity:
		return "Dados inválidos."
	default:
		return "Erro interno do servidor."
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
