package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wayfarer",
		Short: "Client-side navigation engine",
		Long: `Wayfarer translates URLs into canonical actions and keeps a
history engine synchronized with a real browser over a websocket.

  • Ordered route table with typed parameter transformers
  • Vetoable navigation with an async revert/commit pop protocol
  • Session history snapshots (in-memory or S3)
  • Simulator for replaying navigation scripts without a browser`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		simCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
