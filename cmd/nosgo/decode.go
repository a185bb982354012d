package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/udisondev/nosgo/internal/inspector"
	"github.com/udisondev/nosgo/internal/sink"
)

// dumpFlags binds the DumpOptions flags shared by decode and encode.
func dumpFlags(cmd *cobra.Command, channel, direction *string, key *uint16) {
	cmd.Flags().StringVar(channel, "channel", string(sink.ChannelWorld), "channel: login or world")
	cmd.Flags().StringVar(direction, "direction", string(sink.DirectionInbound), "direction: in (client→server) or out")
	cmd.Flags().Uint16Var(key, "key", 0, "world session key")
}

func decodeCmd() *cobra.Command {
	var (
		channel, direction string
		key                uint16
		session            bool
	)

	cmd := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode a hex capture (argument or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 1 {
				raw = args[0]
			} else {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				raw = string(data)
			}

			data, err := hex.DecodeString(strings.Join(strings.Fields(raw), ""))
			if err != nil {
				return fmt.Errorf("decoding hex: %w", err)
			}

			opts := inspector.DumpOptions{
				Channel:   sink.Channel(channel),
				Direction: sink.Direction(direction),
				Key:       key,
				Session:   session,
			}
			packets, err := inspector.DecodeDump(opts, data)
			for _, p := range packets {
				fmt.Fprintf(cmd.OutOrStdout(), "%q\n", p)
			}
			return err
		},
	}

	dumpFlags(cmd, &channel, &direction, &key)
	cmd.Flags().BoolVar(&session, "session", false, "world in: capture starts with the session blob")

	return cmd
}
