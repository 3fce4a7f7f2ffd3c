/*
Copyright © 2025 Netgauge Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/netgauge/prtg-exporter/pkg/config"
	"github.com/netgauge/prtg-exporter/pkg/exporter"
	"github.com/netgauge/prtg-exporter/pkg/logging"
	"github.com/netgauge/prtg-exporter/pkg/poller"
	"github.com/netgauge/prtg-exporter/pkg/prtg"
	"github.com/netgauge/prtg-exporter/pkg/server"
)

const (
	name           = "prtg-exporter"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Export PRTG sensor and channel values as Prometheus gauges",
		Version: version,
		Description: `Polls a PRTG server's table API on a fixed interval and republishes
sensor and channel last values as labeled gauge metrics on a local
/metrics endpoint.

Configuration precedence: flags > environment (PRTG_*) > config file.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (watched for changes when set)",
			},
			&cli.StringFlag{
				Name:  "server",
				Usage: "Base URL of the PRTG server (e.g. https://prtg.example.com)",
			},
			&cli.StringFlag{
				Name:  "username",
				Usage: "PRTG API username",
			},
			&cli.StringFlag{
				Name:  "passhash",
				Usage: "PRTG API passhash (opaque credential token)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: fmt.Sprintf("Listen port for the scrape endpoint (default %d)", config.DefaultPort),
			},
			&cli.IntFlag{
				Name:  "interval",
				Usage: fmt.Sprintf("Refresh interval in seconds (default %d)", config.DefaultRefreshIntervalSeconds),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Action: run,
	}
}

// loadConfig assembles the effective configuration: config file (if any),
// environment, then flag overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.IsSet("server") {
		cfg.Server = cmd.String("server")
	}
	if cmd.IsSet("username") {
		cfg.Username = cmd.String("username")
	}
	if cmd.IsSet("passhash") {
		cfg.Passhash = cmd.String("passhash")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("interval") {
		cfg.RefreshIntervalSeconds = int(cmd.Int("interval"))
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run wires the exporter together and blocks until shutdown.
func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"server", cfg.Server,
		"port", cfg.Port,
		"interval", cfg.RefreshInterval())

	client := prtg.New(cfg.Server, cfg.Username, cfg.Passhash)
	metrics := exporter.New()
	p := poller.New(client, metrics)

	srv := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithPort(cfg.Port),
		server.WithMetricsHandler(metrics.Handler()),
		server.WithRegisterer(metrics.Registry()),
	)
	p.OnReady(func() { srv.SetReady(true) })

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gctx)
	})

	g.Go(func() error {
		err := p.Run(gctx, cfg.RefreshInterval())
		if gctx.Err() != nil {
			return nil
		}
		return err
	})

	if path := cmd.String("config"); path != "" {
		g.Go(func() error {
			return config.Watch(gctx, path, func(updated *config.Config) {
				client.SetCredentials(updated.Username, updated.Passhash)
				p.SetInterval(updated.RefreshInterval())
			})
		})
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("exporter error: %w", err)
	}

	slog.Info("stopped gracefully")
	return nil
}

// Execute runs the root command with SIGINT/SIGTERM handling. Called by
// main.main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
