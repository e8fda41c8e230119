// Command alphactl opera a API da Alpha Clean pelo terminal: login,
// horários, agendamentos, carros e a visão mensal do administrador.
//
// Usage:
//
//	alphactl [-api URL] <command> [flags]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/BruksfildServices01/alpha-clean/internal/client"
	"github.com/BruksfildServices01/alpha-clean/internal/config"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/timezone"
)

type app struct {
	api   *client.Client
	clock timezone.Clock
	out   io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":        {"entra e guarda a sessão", cmdLogin},
	"logout":       {"encerra a sessão", cmdLogout},
	"whoami":       {"mostra o usuário logado", cmdWhoami},
	"services":     {"lista os serviços ativos", cmdServices},
	"slots":        {"horários livres de uma data", cmdSlots},
	"book":         {"agenda uma lavagem", cmdBook},
	"appointments": {"lista agendamentos", cmdAppointments},
	"start":        {"inicia um agendamento (admin)", cmdStart},
	"complete":     {"finaliza um agendamento (admin)", cmdComplete},
	"cancel":       {"cancela um agendamento", cmdCancel},
	"calendar":     {"grade do mês (admin)", cmdCalendar},
	"dashboard":    {"resumo do mês (admin)", cmdDashboard},
	"revenue":      {"receita mensal do ano (admin)", cmdRevenue},
	"cars":         {"lista os carros", cmdCars},
	"add-car":      {"cadastra um carro", cmdAddCar},
	"set-default":  {"define o carro padrão", cmdSetDefault},
}

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", describe(err))
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg := config.Load()

	global := flag.NewFlagSet("alphactl", flag.ContinueOnError)
	apiURL := global.String("api", envOr("ALPHA_API_URL", "http://localhost"+cfg.Addr()), "API base URL")
	sessionPath := global.String("session", envOr("ALPHACTL_SESSION", defaultSessionPath()), "session file")
	timeout := global.Duration("timeout", 15*time.Second, "HTTP timeout")
	global.Usage = func() { usage(global) }

	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		usage(global)
		return errors.New("informe um comando")
	}

	name := global.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		usage(global)
		return fmt.Errorf("comando desconhecido: %s", name)
	}

	api, err := client.New(client.Config{
		BaseURL: *apiURL,
		Timeout: *timeout,
		Store:   client.NewFileStore(*sessionPath),
		Logger:  logging.NewWithWriter(cfg.LogLevel, os.Stderr),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{
		api:   api,
		clock: timezone.ShopClock(cfg.ShopTimezone),
		out:   os.Stdout,
	}
	return cmd.run(ctx, a, global.Args()[1:])
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "uso: alphactl [flags] <comando> [flags do comando]")
	fmt.Fprintln(w, "\ncomandos:")

	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-13s %s\n", n, commands[n].summary)
	}

	fmt.Fprintln(w, "\nflags:")
	fs.PrintDefaults()
}

// describe prefere a mensagem do servidor, que já vem pronta para o usuário.
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case client.IsUnauthorized(err):
		return "faça login com: alphactl login -email ..."
	default:
		return err.Error()
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "alphactl", "session.json")
}
