// Package main is the entry point for the School Admin Hub terminal
// application: a role-based portal over a flat-file school database.
//
// The architecture keeps a clean layering:
// - Domain: entities and invariants, no I/O
// - Store: canonical in-memory collections and every mutation
// - Persistence: the JSON files, backups, and identifier repair
// - Interface: the interactive menus
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/school-hub/school-admin-hub/config"
	"github.com/school-hub/school-admin-hub/internal/interface/cli"
	"github.com/school-hub/school-admin-hub/internal/persistence"
	"github.com/school-hub/school-admin-hub/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closeLog, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	gateway := persistence.NewGateway(persistence.Options{
		DataPath:        cfg.Storage.DataPath,
		AttendancePath:  cfg.Storage.AttendancePath,
		BackupRetention: cfg.Storage.BackupRetention,
		Logger:          log,
	})

	st, report, err := gateway.Load()
	if err != nil {
		return err
	}
	if report.Recovered {
		// The unreadable original stays on disk; the next save snapshots it
		// into the backup set before overwriting.
		fmt.Fprintf(os.Stderr, "Warning: starting fresh (%v).\n", report.Err)
	}
	if report.Bootstrapped {
		fmt.Fprintln(os.Stderr, "First run: log in as 'admin' with the default password.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.New(cli.Options{
		Store:        st,
		Gateway:      gateway,
		Log:          log,
		In:           os.Stdin,
		Out:          os.Stdout,
		ReadPassword: readPassword,
	})
	return app.Run(ctx)
}

// buildLogger wires the structured logger to stderr or a file.
func buildLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	opts := logger.Options{Level: logger.ParseLevel(cfg.Log.Level)}
	if cfg.Log.Path == "" {
		return logger.New(opts), func() {}, nil
	}
	f, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	opts.Output = f
	return logger.New(opts), func() { f.Close() }, nil
}

// readPassword reads a secret without echo when stdin is a terminal,
// falling back to a plain line read for piped input.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stdout, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stdout)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", err
	}
	return line, nil
}
