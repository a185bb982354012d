package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/nosgo/internal/config"
	"github.com/udisondev/nosgo/internal/db"
	"github.com/udisondev/nosgo/internal/inspector"
	"github.com/udisondev/nosgo/internal/sink"
)

const defaultConfigPath = "config/inspector.yaml"

func proxyCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Run the login and world inspector proxies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if p := os.Getenv("NOSGO_CONFIG"); p != "" && !cmd.Flags().Changed("config") {
				cfgPath = p
			}
			return runProxy(ctx, cfgPath)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", defaultConfigPath, "path to inspector YAML config")

	return cmd
}

func runProxy(ctx context.Context, cfgPath string) error {
	cfg, err := config.LoadInspector(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
	slog.Info("nosgo inspector starting", "config", cfgPath)

	sinks := sink.Multi{sink.NewLogSink(nil)}

	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		sinks = append(sinks, db.NewPacketRepository(database.Pool()))
		slog.Info("database sink enabled", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)
	}

	if cfg.NATS.Enabled {
		natsSink, nc, err := sink.DialNATS(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			return err
		}
		defer func() {
			if err := nc.Drain(); err != nil {
				slog.Warn("draining nats", "err", err)
			}
		}()
		sinks = append(sinks, natsSink)
		slog.Info("nats sink enabled", "url", cfg.NATS.URL, "subject", cfg.NATS.Subject)
	}

	metrics := inspector.NewMetrics()
	var metricsLn net.Listener
	if cfg.Metrics.Enabled {
		metricsLn, err = net.Listen("tcp", cfg.Metrics.Listen)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", cfg.Metrics.Listen, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if metricsLn != nil {
		g.Go(func() error {
			return metrics.Serve(gctx, metricsLn)
		})
	}

	for ch, chCfg := range map[sink.Channel]config.ChannelConfig{
		sink.ChannelLogin: cfg.Login,
		sink.ChannelWorld: cfg.World,
	} {
		if !chCfg.Enabled {
			continue
		}
		proxy := inspector.NewProxy(ch, chCfg, sinks, metrics)
		g.Go(func() error {
			if err := proxy.Run(gctx); err != nil {
				return fmt.Errorf("%s proxy: %w", ch, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("inspector: %w", err)
	}
	slog.Info("nosgo inspector stopped")
	return nil
}
