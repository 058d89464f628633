// Command chaching records expenses, budgets and monthly summaries from the
// command line.
//
//	chaching [-data path] [-backend json|sqlite] [-user name] [-password pw] <command> [args]
//
// Commands:
//
//	register                        create a regular account
//	category list|add NAME|delete ID
//	expense  list|add|edit|delete
//	budget   set|list
//	summary  [-month YYYY-MM]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"cha-ching/internal/auth"
	"cha-ching/internal/config"
	"cha-ching/internal/log"
	"cha-ching/internal/prompt"
	"cha-ching/internal/storage"
	"cha-ching/internal/tracker"
)

// now is replaced in tests.
var now = time.Now

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *log.Logger

	auth    *auth.Authenticator
	tracker *tracker.Tracker

	username string
	password string
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"register": cmdRegister,
	"category": cmdCategory,
	"expense":  cmdExpense,
	"budget":   cmdBudget,
	"summary":  cmdSummary,
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("chaching", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: chaching [flags] register|category|expense|budget|summary [args]")
		fs.PrintDefaults()
	}

	dataPath := fs.String("data", cfg.DataPath, "Path to the data file (env CHACHING_DATA)")
	backend := fs.String("backend", cfg.Backend, "Storage backend: json or sqlite (env CHACHING_BACKEND)")
	username := fs.String("user", os.Getenv("CHACHING_USER"), "Username (env CHACHING_USER)")
	password := fs.String("password", "", "Password (optional, will prompt if omitted)")
	verbose := fs.Bool("v", false, "Debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.DataPath, cfg.Backend = *dataPath, *backend
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("missing command")
	}
	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fs.Usage()
		return fmt.Errorf("unknown command %q", name)
	}

	logger := log.New(log.Config{Level: cfg.Level(), Component: "cli", Output: stderr})
	store, err := storage.Open(cfg.Backend, cfg.DataPath)
	if err != nil {
		return fmt.Errorf("failed to open data store: %w", err)
	}
	defer store.Close()
	logger.Debug("store opened", slog.String("backend", cfg.Backend), slog.String("path", cfg.DataPath))

	a := &app{
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
		log:      logger.WithComponent(name),
		auth:     auth.NewAuthenticator(store, cfg.BcryptCost),
		tracker:  tracker.New(store),
		username: *username,
		password: *password,
	}

	a.log.Debug("running command", slog.String("command", name))
	return cmd(context.Background(), a, fs.Args()[1:])
}

// credentials returns the global -user/-password, prompting for a missing
// password.
func (a *app) credentials() (string, string, error) {
	if a.username == "" {
		return "", "", fmt.Errorf("missing required flags: user")
	}
	if a.password == "" {
		fmt.Fprint(a.stdout, "Password: ")
		pw, err := prompt.ReadPassword(a.stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(a.stdout)
		a.password = pw
	}
	return a.username, a.password, nil
}

// login opens a session for the command. Each invocation is its own session
// and is logged out when the command returns.
func (a *app) login(ctx context.Context) (*auth.Session, error) {
	user, pw, err := a.credentials()
	if err != nil {
		return nil, err
	}
	sess, err := a.auth.Login(ctx, user, pw)
	if err != nil {
		return nil, err
	}
	a.log.Debug("logged in", slog.String("user", user), slog.Bool("admin", sess.IsAdmin()))
	return sess, nil
}

func currentMonth() string {
	return now().Format("2006-01")
}

func today() string {
	return now().Format("2006-01-02")
}

func subFlags(name string, a *app) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}
