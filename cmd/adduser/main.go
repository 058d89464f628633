package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"cha-ching/internal/auth"
	"cha-ching/internal/config"
	"cha-ching/internal/prompt"
	"cha-ching/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	admin := fs.Bool("admin", false, "Create the user with the admin role")
	dataPath := fs.String("data", cfg.DataPath, "Path to the data file (env CHACHING_DATA)")
	backend := fs.String("backend", cfg.Backend, "Storage backend: json or sqlite (env CHACHING_BACKEND)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		fmt.Fprintln(stdout, "Usage: adduser -user <username> [-password <password>] [-admin] [-data <path>] [-backend json|sqlite]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		password, err = prompt.ReadPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout) // Print newline after password input
	}

	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	store, err := storage.Open(*backend, *dataPath)
	if err != nil {
		return fmt.Errorf("failed to open data store: %w", err)
	}
	defer store.Close()

	a := auth.NewAuthenticator(store, cfg.BcryptCost)
	count, err := a.UserCount(context.Background())
	if err != nil {
		return fmt.Errorf("failed to open data store: %w", err)
	}
	create := a.Register
	if *admin {
		create = a.RegisterAdmin
	}

	user, err := create(context.Background(), *username, password)
	if errors.Is(err, auth.ErrUsernameTaken) {
		return fmt.Errorf("user %s already exists", *username)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d (role %s)\n", user.Username, user.ID, user.Role)
	if count == 0 && !*admin {
		fmt.Fprintln(stderr, "Warning: no admin account exists yet; categories can only be managed by an admin (use -admin)")
	}
	return nil
}
