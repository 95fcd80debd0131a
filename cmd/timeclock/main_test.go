package main

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/timeclock/internal/application"
	"github.com/example/timeclock/internal/testfixtures"
)

func newMenuDeps(t *testing.T) (menuDeps, *testfixtures.ServiceFactory) {
	t.Helper()

	factory := testfixtures.NewServiceFactory()
	testfixtures.SeedLedger(t, factory.Store, "rafael")
	ledger := factory.NewLedgerService(nil, nil)
	reports := factory.NewReportService(ledger, application.PageLayout{}, nil)

	return menuDeps{
		ledger:    ledger,
		reports:   reports,
		principal: "rafael",
		reportDir: t.TempDir(),
		now:       factory.Clock.NowFunc(),
	}, factory
}

func runMenu(t *testing.T, deps menuDeps, input string) string {
	t.Helper()

	var out strings.Builder
	if err := menuLoop(context.Background(), deps, bufio.NewReader(strings.NewReader(input)), &out); err != nil {
		t.Fatalf("menuLoop failed: %v", err)
	}
	return out.String()
}

func TestMenuLoop(t *testing.T) {
	t.Parallel()

	t.Run("records a punch and reports the duplicate on retry", func(t *testing.T) {
		t.Parallel()

		deps, factory := newMenuDeps(t)
		out := runMenu(t, deps, "1\n1\n0\n")

		if !strings.Contains(out, "Ponto de Entrada marcado com sucesso às 08:30:00!") {
			t.Fatalf("missing success message in output:\n%s", out)
		}
		if !strings.Contains(out, "Você já marcou o ponto de Entrada hoje!") {
			t.Fatalf("missing duplicate message in output:\n%s", out)
		}
		if factory.Store.RowCount("rafael") != 2 {
			t.Fatalf("expected a single event row, got %d rows", factory.Store.RowCount("rafael"))
		}
	})

	t.Run("marks recorded kinds in the menu", func(t *testing.T) {
		t.Parallel()

		deps, _ := newMenuDeps(t)
		out := runMenu(t, deps, "3\n0\n")

		if !strings.Contains(out, "[3] Início Almoço [x]") {
			t.Fatalf("expected the lunch-start entry to be marked:\n%s", out)
		}
		if strings.Contains(out, "[1] Entrada       [x]") {
			t.Fatalf("expected the clock-in entry to stay unmarked:\n%s", out)
		}
	})

	t.Run("exports the current month's extract", func(t *testing.T) {
		t.Parallel()

		deps, _ := newMenuDeps(t)
		out := runMenu(t, deps, "1\n5\n0\n")

		wantFile := "rafael_extrato_" + strings.Replace(testfixtures.ReferencePeriod(), "/", "-", 1) + ".txt"
		if !strings.Contains(out, "Extrato exportado para ") {
			t.Fatalf("missing export confirmation:\n%s", out)
		}

		content, err := os.ReadFile(filepath.Join(deps.reportDir, wantFile))
		if err != nil {
			t.Fatalf("failed to read exported extract: %v", err)
		}
		if !strings.Contains(string(content), "Extrato de Ponto - rafael - "+testfixtures.ReferencePeriod()) {
			t.Fatalf("unexpected extract content:\n%s", content)
		}
	})

	t.Run("reports an empty month without writing a file", func(t *testing.T) {
		t.Parallel()

		deps, _ := newMenuDeps(t)
		out := runMenu(t, deps, "5\n0\n")

		if !strings.Contains(out, "Nenhum ponto registrado para este mês.") {
			t.Fatalf("missing empty-month message:\n%s", out)
		}

		entries, err := os.ReadDir(deps.reportDir)
		if err != nil {
			t.Fatalf("failed to list report dir: %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected no extract file, found %d entries", len(entries))
		}
	})

	t.Run("accepts options surrounded by whitespace", func(t *testing.T) {
		t.Parallel()

		deps, factory := newMenuDeps(t)
		out := runMenu(t, deps, " 1\n\t4 \n0\n")

		if !strings.Contains(out, "Ponto de Entrada marcado com sucesso às 08:30:00!") {
			t.Fatalf("missing clock-in confirmation:\n%s", out)
		}
		if !strings.Contains(out, "Ponto de Fim Almoço marcado com sucesso às 08:30:00!") {
			t.Fatalf("missing lunch-end confirmation:\n%s", out)
		}
		if factory.Store.RowCount("rafael") != 3 {
			t.Fatalf("expected two event rows, got %d rows", factory.Store.RowCount("rafael"))
		}
	})

	t.Run("rejects an unknown option", func(t *testing.T) {
		t.Parallel()

		deps, _ := newMenuDeps(t)
		out := runMenu(t, deps, "9\n0\n")

		if !strings.Contains(out, "Opção desconhecida.") {
			t.Fatalf("missing unknown-option message:\n%s", out)
		}
	})
}
