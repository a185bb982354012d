package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nosgo",
		Short: "NosTale wire codec and packet inspector",
		Long: `nosgo decodes the NosTale login and world channels.

  proxy   relay a live client through the inspector and record packets
  decode  decode a hex capture offline
  encode  build wire bytes for a packet (test fixtures)
  captures  read back packets stored by the database sink`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		proxyCmd(),
		decodeCmd(),
		encodeCmd(),
		capturesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
