package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/udisondev/nosgo/internal/config"
	"github.com/udisondev/nosgo/internal/db"
	"github.com/udisondev/nosgo/internal/sink"
)

// captureStore is the read side of the capture database.
type captureStore interface {
	ListBySession(ctx context.Context, key uint16, limit int) ([]sink.Packet, error)
	CountByChannel(ctx context.Context) ([]db.ChannelCount, error)
}

func capturesCmd() *cobra.Command {
	var (
		cfgPath string
		key     uint16
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "captures",
		Short: "Show packets recorded by the proxy database sink",
		Long: `Without --session prints packet counts per channel and direction.
With --session prints the recorded packets of one world session, oldest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if p := os.Getenv("NOSGO_CONFIG"); p != "" && !cmd.Flags().Changed("config") {
				cfgPath = p
			}
			cfg, err := config.LoadInspector(cfgPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if !cfg.Database.Enabled {
				return errors.New("database is disabled in config")
			}

			ctx := cmd.Context()
			database, err := db.New(ctx, cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer database.Close()

			var session *uint16
			if cmd.Flags().Changed("session") {
				session = &key
			}
			return printCaptures(ctx, cmd.OutOrStdout(), db.NewPacketRepository(database.Pool()), session, limit)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", defaultConfigPath, "path to inspector YAML config")
	cmd.Flags().Uint16Var(&key, "session", 0, "world session key to list")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum packets to list")

	return cmd
}

// printCaptures writes per-channel counts, or the packets of session when it is set.
func printCaptures(ctx context.Context, w io.Writer, store captureStore, session *uint16, limit int) error {
	if session == nil {
		counts, err := store.CountByChannel(ctx)
		if err != nil {
			return err
		}
		for _, c := range counts {
			fmt.Fprintf(w, "%-5s %-3s %d\n", c.Channel, c.Direction, c.Count)
		}
		return nil
	}

	if limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}
	packets, err := store.ListBySession(ctx, *session, limit)
	if err != nil {
		return err
	}
	for _, p := range packets {
		fmt.Fprintf(w, "%s %-3s %q\n", p.CapturedAt.Format("15:04:05.000"), p.Direction, p.Text)
	}
	return nil
}
