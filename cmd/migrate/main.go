package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/migrations"
)

var errUsage = errors.New("usage")

func main() {
	steps := flag.Int("steps", 0, "apply N migrations (negative rolls back)")
	force := flag.Int("force", -1, "force the schema version without running migrations")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] up|down|version|steps|force\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(flag.Arg(0), *steps, *force); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		slog.Error("Migration failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func run(cmd string, steps, force int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	m, err := database.NewMigrator(migrations.FS, cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer m.Close()

	switch cmd {
	case "up", "":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		return m.Steps(steps)
	case "force":
		if force < 0 {
			return fmt.Errorf("%w: -force version is required", errUsage)
		}
		return m.Force(force)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	default:
		return errUsage
	}
}
