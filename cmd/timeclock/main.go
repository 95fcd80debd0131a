// Command timeclock is the interactive marcador de ponto: login, punch menu
// and monthly extract export against a local row store.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/example/timeclock/internal/application"
	"github.com/example/timeclock/internal/config"
	"github.com/example/timeclock/internal/logging"
	"github.com/example/timeclock/internal/persistence"
	"github.com/example/timeclock/internal/persistence/sqlite"
	"github.com/example/timeclock/internal/persistence/xlsx"
	"github.com/example/timeclock/internal/render"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type options struct {
	store             string
	sqliteDSN         string
	workbookPath      string
	usersFile         string
	allowSelfEquality bool
	reportDir         string
}

func main() {
	opts := options{}
	flag.StringVar(&opts.store, "store", config.StoreSQLite, "backend da planilha de pontos: sqlite ou xlsx")
	flag.StringVar(&opts.sqliteDSN, "dsn", "file:ponto.db?_foreign_keys=on", "DSN do banco SQLite")
	flag.StringVar(&opts.workbookPath, "workbook", "ponto.xlsx", "caminho da pasta de trabalho xlsx")
	flag.StringVar(&opts.usersFile, "users", "", "arquivo JSON de usuários (principal -> hash argon2id)")
	flag.BoolVar(&opts.allowSelfEquality, "allow-self-equality", false, "aceitar senha igual ao usuário (apenas demonstração, inseguro)")
	flag.StringVar(&opts.reportDir, "report-dir", ".", "diretório de saída dos extratos")
	flag.Parse()

	logger := logging.New(os.Stderr, slog.LevelWarn)

	if err := run(context.Background(), opts, os.Stdin, os.Stdout, logger); err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, in io.Reader, out io.Writer, logger *slog.Logger) error {
	store, err := openStore(opts)
	if err != nil {
		return err
	}
	defer store.Close()

	checker, err := buildChecker(opts, logger)
	if err != nil {
		return err
	}

	authService := application.NewAuthServiceWithLogger(checker, nil, time.Now, logger)
	ledgerService := application.NewLedgerServiceWithLogger(store, time.Now, logger)
	reportService := application.NewReportServiceWithLogger(ledgerService, application.DefaultPageLayout, logger)

	reader := bufio.NewReader(in)

	principal, err := login(ctx, authService, reader, out)
	if err != nil {
		return err
	}

	if err := ledgerService.EnsureLedger(ctx, principal.Name); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nLogin realizado com sucesso! Bem-vindo(a), %s.\n", principal.Name)
	return menuLoop(ctx, menuDeps{
		ledger:    ledgerService,
		reports:   reportService,
		principal: principal.Name,
		reportDir: opts.reportDir,
		now:       time.Now,
	}, reader, out)
}

func login(ctx context.Context, auth *application.AuthService, reader *bufio.Reader, out io.Writer) (application.Principal, error) {
	fmt.Fprint(out, "Usuário: ")
	principal, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return application.Principal{}, err
	}

	fmt.Fprint(out, "Senha: ")
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return application.Principal{}, err
	}

	result, err := auth.Authenticate(ctx, application.Credentials{
		Principal: strings.TrimSpace(principal),
		Secret:    string(secret),
	})
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			return application.Principal{}, errors.New("usuário ou senha inválidos")
		}
		return application.Principal{}, err
	}
	return result.Principal, nil
}

type menuDeps struct {
	ledger    *application.LedgerService
	reports   *application.ReportService
	principal string
	reportDir string
	now       func() time.Time
}

var menuKinds = []application.EventKind{
	application.ClockIn,
	application.ClockOut,
	application.LunchStart,
	application.LunchEnd,
}

func menuLoop(ctx context.Context, deps menuDeps, reader *bufio.Reader, out io.Writer) error {
	for {
		status, err := deps.ledger.StatusToday(ctx, deps.principal)
		if err != nil {
			return err
		}

		fmt.Fprintln(out)
		for i, kind := range menuKinds {
			mark := " "
			if status[kind] {
				mark = "x"
			}
			fmt.Fprintf(out, "[%d] %-13s [%s]\n", i+1, kind.Label(), mark)
		}
		fmt.Fprintln(out, "[5] Exportar extrato do mês")
		fmt.Fprintln(out, "[0] Sair")
		fmt.Fprint(out, "Opção: ")

		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		choice := strings.TrimSpace(line)
		switch choice {
		case "0":
			return nil
		case "1", "2", "3", "4":
			kind := menuKinds[int(choice[0]-'1')]
			recordEvent(ctx, deps, kind, out)
		case "5":
			exportReport(ctx, deps, out)
		default:
			fmt.Fprintln(out, "Opção desconhecida.")
		}
	}
}

func recordEvent(ctx context.Context, deps menuDeps, kind application.EventKind, out io.Writer) {
	ack, err := deps.ledger.Record(ctx, deps.principal, kind)
	if err != nil {
		var dErr *application.DuplicateError
		if errors.As(err, &dErr) {
			fmt.Fprintf(out, "Você já marcou o ponto de %s hoje!\n", dErr.Kind.Label())
			return
		}
		fmt.Fprintln(out, "Não foi possível marcar o ponto:", err)
		return
	}
	fmt.Fprintf(out, "Ponto de %s marcado com sucesso às %s!\n", ack.Kind.Label(), ack.Time)
}

func exportReport(ctx context.Context, deps menuDeps, out io.Writer) {
	now := deps.now
	if now == nil {
		now = time.Now
	}
	period := now().Format(application.MonthLayout)

	report, err := deps.reports.BuildReport(ctx, deps.principal, period)
	if err != nil {
		if errors.Is(err, application.ErrEmptyReport) {
			fmt.Fprintln(out, "Nenhum ponto registrado para este mês.")
			return
		}
		fmt.Fprintln(out, "Não foi possível gerar o extrato:", err)
		return
	}

	path, err := render.WriteFile(deps.reportDir, report)
	if err != nil {
		fmt.Fprintln(out, "Não foi possível gravar o extrato:", err)
		return
	}
	fmt.Fprintf(out, "Extrato exportado para %s\n", path)
}

type closableStore interface {
	persistence.RowStore
	Close() error
}

func openStore(opts options) (closableStore, error) {
	switch opts.store {
	case config.StoreWorkbook:
		return xlsx.Open(opts.workbookPath)
	case config.StoreSQLite:
		store, err := sqlite.Open(opts.sqliteDSN)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(context.Background()); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("backend desconhecido: %s", opts.store)
	}
}

func buildChecker(opts options, logger *slog.Logger) (application.CredentialChecker, error) {
	if opts.usersFile != "" {
		return application.LoadAllowlist(opts.usersFile)
	}
	if opts.allowSelfEquality {
		logger.Warn("self-equality credential stub enabled; do not use in production")
		return application.SelfEqualityChecker{}, nil
	}
	return nil, errors.New("informe -users ou habilite -allow-self-equality")
}
