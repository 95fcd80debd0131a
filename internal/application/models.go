package application

import (
	"fmt"
	"time"
)

// Formats shared with the stored rows. Dates are compared as formatted
// strings, so every caller must produce exactly these layouts.
const (
	DateLayout  = "02/01/2006"
	TimeLayout  = "15:04:05"
	MonthLayout = "01/2006"
)

// Principal represents the authenticated employee invoking a service method.
type Principal struct {
	Name string
}

// Credentials carries a login attempt.
type Credentials struct {
	Principal string
	Secret    string
}

// AuthenticateResult is returned on successful authentication.
type AuthenticateResult struct {
	Principal Principal
	Token     string
	ExpiresAt time.Time
}

// EventKind enumerates the attendance actions an employee can record.
type EventKind int

const (
	ClockIn EventKind = iota
	ClockOut
	LunchStart
	LunchEnd
)

// Kinds returns every event kind in report column order.
func Kinds() []EventKind {
	return []EventKind{ClockIn, ClockOut, LunchStart, LunchEnd}
}

// Label returns the persisted label of the kind, the value the Tipo column
// holds.
func (k EventKind) Label() string {
	switch k {
	case ClockIn:
		return "Entrada"
	case ClockOut:
		return "Saída"
	case LunchStart:
		return "Início Almoço"
	case LunchEnd:
		return "Fim Almoço"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Column returns the header column that carries the kind's time-of-day.
func (k EventKind) Column() string {
	switch k {
	case ClockIn:
		return "Hora Entrada"
	case ClockOut:
		return "Hora Saída"
	case LunchStart:
		return "Hora Almoço Início"
	case LunchEnd:
		return "Hora Almoço Fim"
	default:
		return ""
	}
}

// ParseEventKind resolves a persisted label back to its kind.
func ParseEventKind(label string) (EventKind, bool) {
	for _, kind := range Kinds() {
		if kind.Label() == label {
			return kind, true
		}
	}
	return 0, false
}

// LedgerHeader is the header row written when a principal's partition is
// created: one time column per event kind plus the kind label itself.
func LedgerHeader() []string {
	return []string{
		"Usuário",
		"Data",
		"Hora Entrada",
		"Hora Saída",
		"Hora Almoço Início",
		"Hora Almoço Fim",
		"Tipo",
	}
}

// AttendanceEvent is one recorded attendance action, reconstructed from a
// stored row.
type AttendanceEvent struct {
	Principal    string
	Date         string
	Kind         EventKind
	Time         string
	RawTimestamp time.Time
}

// DayStatus maps each event kind to whether it was already recorded on the
// day in question. UIs use it to enable or disable per-kind actions.
type DayStatus map[EventKind]bool

// Ack confirms a recorded event and carries the refreshed day status so the
// presentation layer can react without issuing another query.
type Ack struct {
	Kind   EventKind
	Date   string
	Time   string
	Status DayStatus
}

// ReportLineKind distinguishes the line types a built report contains.
type ReportLineKind int

const (
	// ReportTitleLine repeats the report heading at the top of each page.
	ReportTitleLine ReportLineKind = iota
	// ReportDayLine summarizes one calendar day's recorded times.
	ReportDayLine
	// ReportPageBreak marks the boundary between two pages. It carries no
	// text; the renderer decides how a break materializes.
	ReportPageBreak
)

// ReportLine is one element of the printable report sequence.
type ReportLine struct {
	Kind ReportLineKind
	Text string
}

// Report is the printable monthly extract for one principal.
type Report struct {
	Principal string
	Period    string
	Title     string
	Lines     []ReportLine
}

// FileName returns the output file name the drivers use for the extract,
// e.g. "rafael_extrato_03-2024.txt".
func (r Report) FileName(ext string) string {
	period := r.Period
	if len(period) == len(MonthLayout) {
		period = period[:2] + "-" + period[3:]
	}
	return fmt.Sprintf("%s_extrato_%s.%s", r.Principal, period, ext)
}

// PageLayout models the vertical layout the renderer applies. The day-line
// capacity of a page is derived from it, and the builder treats that
// capacity as a contract when inserting page breaks.
type PageLayout struct {
	TitleOffset     int
	FirstLineOffset int
	LineHeight      int
	BottomMargin    int
}

// DefaultPageLayout is the letter-size extract layout: title at 750, first
// line at 730, 20 units per line, break below 100.
var DefaultPageLayout = PageLayout{
	TitleOffset:     750,
	FirstLineOffset: 730,
	LineHeight:      20,
	BottomMargin:    100,
}

// LinesPerPage returns how many day lines fit on one page.
func (l PageLayout) LinesPerPage() int {
	if l.LineHeight <= 0 || l.FirstLineOffset <= l.BottomMargin {
		return 1
	}
	span := l.FirstLineOffset - l.BottomMargin
	lines := span / l.LineHeight
	if span%l.LineHeight != 0 {
		lines++
	}
	return lines
}
