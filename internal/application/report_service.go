package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// LedgerReader is the slice of the ledger the report builder depends on.
type LedgerReader interface {
	ReadEvents(ctx context.Context, principal string) ([]AttendanceEvent, error)
}

// ReportService builds the printable monthly extract from a principal's
// ledger: filter to the requested year-month, group by calendar day in
// append order, paginate.
type ReportService struct {
	ledger LedgerReader
	layout PageLayout
	logger *slog.Logger
}

// NewReportService constructs a ReportService with the default page layout.
func NewReportService(ledger LedgerReader) *ReportService {
	return NewReportServiceWithLogger(ledger, DefaultPageLayout, nil)
}

// NewReportServiceWithLogger constructs a ReportService with an explicit
// layout and logger.
func NewReportServiceWithLogger(ledger LedgerReader, layout PageLayout, logger *slog.Logger) *ReportService {
	if layout == (PageLayout{}) {
		layout = DefaultPageLayout
	}
	return &ReportService{
		ledger: ledger,
		layout: layout,
		logger: defaultLogger(logger),
	}
}

func (s *ReportService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReportService", operation, attrs...)
}

// dayLine accumulates the times of one calendar day across event rows.
type dayLine struct {
	date  string
	times map[EventKind]string
}

func (d *dayLine) text() string {
	return fmt.Sprintf("Data: %s | Entrada: %s | Almoço: %s%s | Saída: %s",
		d.date,
		d.times[ClockIn],
		d.times[LunchStart],
		d.times[LunchEnd],
		d.times[ClockOut],
	)
}

// BuildReport assembles the extract for the given year-month (MonthLayout,
// e.g. "03/2024"). Days appear in the order their first row was appended,
// which is not necessarily calendar order. Returns ErrEmptyReport when the
// period holds no events.
func (s *ReportService) BuildReport(ctx context.Context, principal, yearMonth string) (Report, error) {
	if err := validatePrincipal(principal); err != nil {
		return Report{}, err
	}
	if _, err := time.Parse(MonthLayout, yearMonth); err != nil {
		vErr := &ValidationError{}
		vErr.add("period", "period must be formatted MM/YYYY")
		return Report{}, vErr
	}

	logger := s.loggerWith(ctx, "BuildReport", "principal", principal, "period", yearMonth)

	events, err := s.ledger.ReadEvents(ctx, principal)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read ledger", "error", err)
		return Report{}, err
	}

	days := s.groupByDay(ctx, events, yearMonth)
	if len(days) == 0 {
		logger.InfoContext(ctx, "no events in period")
		return Report{}, ErrEmptyReport
	}

	report := Report{
		Principal: principal,
		Period:    yearMonth,
		Title:     fmt.Sprintf("Extrato de Ponto - %s - %s", principal, yearMonth),
	}
	report.Lines = s.paginate(report.Title, days)

	logger.InfoContext(ctx, "report built", "days", len(days), "lines", len(report.Lines))
	return report, nil
}

// groupByDay filters events to the period and merges them into one line per
// calendar day, ordered by first appearance. When a day carries two times
// for the same kind (possible across racing processes) the first row wins.
func (s *ReportService) groupByDay(ctx context.Context, events []AttendanceEvent, yearMonth string) []*dayLine {
	var days []*dayLine
	byDate := make(map[string]*dayLine)

	for _, event := range events {
		parsed, err := time.Parse(DateLayout, event.Date)
		if err != nil {
			s.loggerWith(ctx, "BuildReport").WarnContext(ctx, "skipping row with unparseable date", "date", event.Date)
			continue
		}
		if parsed.Format(MonthLayout) != yearMonth {
			continue
		}

		day, ok := byDate[event.Date]
		if !ok {
			day = &dayLine{date: event.Date, times: make(map[EventKind]string)}
			byDate[event.Date] = day
			days = append(days, day)
		}
		if _, taken := day.times[event.Kind]; !taken && event.Time != "" {
			day.times[event.Kind] = event.Time
		}
	}
	return days
}

// paginate lays the day lines out into fixed-height pages: a title line at
// the top of each page, then up to LinesPerPage day lines. A page break and
// repeated title follow every full page, including an exactly full last one.
func (s *ReportService) paginate(title string, days []*dayLine) []ReportLine {
	capacity := s.layout.LinesPerPage()
	lines := make([]ReportLine, 0, len(days)+2*(len(days)/capacity)+1)
	lines = append(lines, ReportLine{Kind: ReportTitleLine, Text: title})

	onPage := 0
	for _, day := range days {
		lines = append(lines, ReportLine{Kind: ReportDayLine, Text: day.text()})
		onPage++
		if onPage == capacity {
			lines = append(lines,
				ReportLine{Kind: ReportPageBreak},
				ReportLine{Kind: ReportTitleLine, Text: title},
			)
			onPage = 0
		}
	}
	return lines
}
