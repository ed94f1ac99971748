package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "vlogscan",
	Short: "Forensic analysis of .vlog session logs",
	Long: `vlogscan reconstructs what happened on a machine from folders of .vlog
session logs: it parses every line it can, orders the records into a
single timeline, and runs anomaly rules over the result.

Malformed lines never abort a scan; they are collected and reported
alongside the timeline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable diagnostic output on stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Diagnostic log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
