package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/preston-bernstein/fantasy-squad-service/internal/config"
	"github.com/preston-bernstein/fantasy-squad-service/internal/logging"
	"github.com/preston-bernstein/fantasy-squad-service/internal/server"
	"github.com/preston-bernstein/fantasy-squad-service/internal/store/bunstore"
	"github.com/preston-bernstein/fantasy-squad-service/internal/store/bunstore/migrations"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "fantasy-squad-service",
		Usage:   "fantasy squad role assignment service",
		Version: appVersion,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "dotenv files to load before reading configuration",
				Value: cli.NewStringSlice(".env"),
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			newMigrateCommand(),
			{
				Name:  "seed",
				Usage: "load the seed roster into an empty catalog",
				Action: func(c *cli.Context) error {
					cfg, logger, err := load(c)
					if err != nil {
						return err
					}
					cfg.Catalog.SeedOnStart = true
					cat, err := server.OpenCatalog(c.Context, cfg.Catalog, logger)
					if err != nil {
						return err
					}
					return cat.Close()
				},
			},
		},
	}
}

// load reads dotenv files and the environment, then builds the service logger.
func load(c *cli.Context) (config.Config, *slog.Logger, error) {
	if err := config.LoadDotEnv(c.StringSlice("env-file")...); err != nil {
		return config.Config{}, nil, err
	}
	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.Metrics.ServiceName,
		Version: appVersion,
		Output:  c.App.Writer,
	})
	return cfg, logger, nil
}

func serve(c *cli.Context) error {
	cfg, logger, err := load(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logging.Error(logger, "server init failed", err)
		return err
	}
	srv.Run(ctx, stop)
	return nil
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "catalog schema migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply pending migrations",
				Action: withStore(func(ctx context.Context, s *bunstore.Store, logger *slog.Logger, _ io.Writer) error {
					return migrations.Migrate(ctx, s.DB(), logger)
				}),
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group",
				Action: withStore(func(ctx context.Context, s *bunstore.Store, logger *slog.Logger, _ io.Writer) error {
					return migrations.Rollback(ctx, s.DB(), logger)
				}),
			},
			{
				Name:  "status",
				Usage: "list applied and pending migrations",
				Action: withStore(func(ctx context.Context, s *bunstore.Store, _ *slog.Logger, out io.Writer) error {
					applied, pending, err := migrations.Status(ctx, s.DB())
					if err != nil {
						return err
					}
					for _, name := range applied {
						fmt.Fprintf(out, "applied  %s\n", name)
					}
					for _, name := range pending {
						fmt.Fprintf(out, "pending  %s\n", name)
					}
					return nil
				}),
			},
		},
	}
}

// withStore opens the configured SQL catalog for a migrate subcommand.
func withStore(fn func(ctx context.Context, s *bunstore.Store, logger *slog.Logger, out io.Writer) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, logger, err := load(c)
		if err != nil {
			return err
		}
		if cfg.Catalog.Driver == server.DriverMemory {
			return fmt.Errorf("migrations need a sql catalog, CATALOG_DRIVER is %q", cfg.Catalog.Driver)
		}
		s, err := bunstore.Open(c.Context, cfg.Catalog.Driver, cfg.Catalog.DSN)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(c.Context, s, logger, c.App.Writer)
	}
}
