package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/timeclock/internal/application"
)

type reportService interface {
	BuildReport(ctx context.Context, principal, yearMonth string) (application.Report, error)
}

// ReportHandler exposes the monthly extract. The response carries the
// logical line sequence; rendering to a file stays with the client.
type ReportHandler struct {
	service   reportService
	responder responder
	logger    *slog.Logger
}

func NewReportHandler(service reportService, logger *slog.Logger) *ReportHandler {
	base := defaultLogger(logger)
	return &ReportHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReportHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReportHandler", operation, attrs...)
}

// Get builds the extract for the period given in the path as MM-YYYY.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request, period string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	period = strings.TrimSpace(period)
	if period == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingPeriod)
		return
	}
	// Paths carry MM-YYYY; the builder expects MM/YYYY.
	yearMonth := strings.Replace(period, "-", "/", 1)

	logger := h.log(r.Context(), "Get", "principal", principal.Name, "period", yearMonth)

	report, err := h.service.BuildReport(r.Context(), principal.Name, yearMonth)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to build report", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	lines := make([]reportLine, 0, len(report.Lines))
	for _, line := range report.Lines {
		lines = append(lines, reportLine{Kind: lineKindLabel(line.Kind), Text: line.Text})
	}

	logger.InfoContext(r.Context(), "report built", "lines", len(lines))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reportResponse{
		Principal: report.Principal,
		Period:    report.Period,
		Title:     report.Title,
		FileName:  report.FileName("txt"),
		Lines:     lines,
	})
}

type reportResponse struct {
	Principal string       `json:"principal"`
	Period    string       `json:"period"`
	Title     string       `json:"title"`
	FileName  string       `json:"file_name"`
	Lines     []reportLine `json:"lines"`
}

type reportLine struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
}

func lineKindLabel(kind application.ReportLineKind) string {
	switch kind {
	case application.ReportTitleLine:
		return "title"
	case application.ReportDayLine:
		return "day"
	default:
		return "page_break"
	}
}
