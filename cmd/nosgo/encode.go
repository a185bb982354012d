package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udisondev/nosgo/internal/inspector"
	"github.com/udisondev/nosgo/internal/sink"
)

func encodeCmd() *cobra.Command {
	var (
		channel, direction string
		key                uint16
	)

	cmd := &cobra.Command{
		Use:   "encode <text>",
		Short: "Print the wire bytes of a packet as hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := inspector.DumpOptions{
				Channel:   sink.Channel(channel),
				Direction: sink.Direction(direction),
				Key:       key,
			}
			wire, err := inspector.EncodeText(opts, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(wire))
			return nil
		},
	}

	dumpFlags(cmd, &channel, &direction, &key)

	return cmd
}
