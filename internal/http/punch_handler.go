package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/timeclock/internal/application"
)

type ledgerService interface {
	Record(ctx context.Context, principal string, kind application.EventKind) (application.Ack, error)
	StatusToday(ctx context.Context, principal string) (application.DayStatus, error)
}

// PunchHandler exposes event recording and the per-day status query.
type PunchHandler struct {
	service   ledgerService
	responder responder
	logger    *slog.Logger
}

func NewPunchHandler(service ledgerService, logger *slog.Logger) *PunchHandler {
	base := defaultLogger(logger)
	return &PunchHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *PunchHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PunchHandler", operation, attrs...)
}

// Create records one attendance event for the authenticated principal.
func (h *PunchHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	var req punchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode punch request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	kind, ok := parseWireKind(req.Kind)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errUnknownKind)
		return
	}

	logger := h.log(r.Context(), "Create", "principal", principal.Name, "kind", kind.Label())

	ack, err := h.service.Record(r.Context(), principal.Name, kind)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to record event", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "event recorded", "date", ack.Date, "time", ack.Time)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, punchResponse{
		Kind:   req.Kind,
		Label:  ack.Kind.Label(),
		Date:   ack.Date,
		Time:   ack.Time,
		Status: wireStatus(ack.Status),
	})
}

// StatusToday returns which kinds were already recorded today, so clients
// can enable or disable their per-kind actions.
func (h *PunchHandler) StatusToday(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	status, err := h.service.StatusToday(r.Context(), principal.Name)
	if err != nil {
		h.log(r.Context(), "StatusToday", "principal", principal.Name).ErrorContext(r.Context(), "failed to load status", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: wireStatus(status)})
}

type punchRequest struct {
	Kind string `json:"kind"`
}

type punchResponse struct {
	Kind   string          `json:"kind"`
	Label  string          `json:"label"`
	Date   string          `json:"date"`
	Time   string          `json:"time"`
	Status map[string]bool `json:"status"`
}

type statusResponse struct {
	Status map[string]bool `json:"status"`
}

// Wire identifiers for the event kinds.
var wireKinds = map[string]application.EventKind{
	"entrada":       application.ClockIn,
	"saida":         application.ClockOut,
	"almoco_inicio": application.LunchStart,
	"almoco_fim":    application.LunchEnd,
}

func parseWireKind(kind string) (application.EventKind, bool) {
	parsed, ok := wireKinds[kind]
	return parsed, ok
}

func wireStatus(status application.DayStatus) map[string]bool {
	out := make(map[string]bool, len(wireKinds))
	for wire, kind := range wireKinds {
		out[wire] = status[kind]
	}
	return out
}
