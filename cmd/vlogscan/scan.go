package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vlogscan/vlogscan-go/internal/logging"
	"github.com/vlogscan/vlogscan-go/internal/query"
	"github.com/vlogscan/vlogscan-go/pkg/vlog"
	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

var (
	// scan flags
	format         string
	showSummary    bool
	showTimeline   bool
	showAlerts     bool
	showMalformed  bool
	visualize      bool
	filterExpr     string
	patternFiles   []string
	ruleFiles      []string
	ipThreshold    int
	ipWindow       time.Duration
	noDefaultRules bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "Scan a folder of .vlog files and report the timeline and anomalies",
	Long: `Scan every .vlog file in a folder, reconstruct the session timeline,
and run anomaly rules over it.

The folder may be given as an argument or via the VLOGSCAN_LOGDIR
environment variable. Files are processed in lexical order and the same
input always produces the same output.

By default all sections are printed (summary, timeline, alerts). Use
the section flags to select specific ones.

Examples:
  # Full report for a folder
  vlogscan scan /var/log/sessions

  # Timeline only, as JSON Lines for further processing
  vlogscan scan /var/log/sessions --timeline --format jsonl | jq .

  # Only network records
  vlogscan scan /var/log/sessions --timeline --filter "category == 'network'"

  # Custom line shapes and extra rules
  vlogscan scan /var/log/sessions --patterns shapes.yaml --rules extra.yaml

  # Per-minute activity chart
  vlogscan scan /var/log/sessions --summary --visualize`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&format, "format", "f", "pretty",
		"Output format: pretty, jsonl")
	scanCmd.Flags().BoolVar(&showSummary, "summary", false,
		"Print the scan summary section")
	scanCmd.Flags().BoolVar(&showTimeline, "timeline", false,
		"Print the timeline section")
	scanCmd.Flags().BoolVar(&showAlerts, "alerts", false,
		"Print the anomaly section")
	scanCmd.Flags().BoolVar(&showMalformed, "malformed", false,
		"Print the malformed line section")
	scanCmd.Flags().BoolVar(&visualize, "visualize", false,
		"Render a per-minute activity chart with the summary")
	scanCmd.Flags().StringVar(&filterExpr, "filter", "",
		"JMESPath expression applied to timeline records")
	scanCmd.Flags().StringSliceVar(&patternFiles, "patterns", nil,
		"YAML pattern files with additional line shapes")
	scanCmd.Flags().StringSliceVar(&ruleFiles, "rules", nil,
		"YAML files with additional anomaly rules")
	scanCmd.Flags().IntVar(&ipThreshold, "ip-threshold", 0,
		"Repeated-IP rule threshold (0 = default)")
	scanCmd.Flags().DurationVar(&ipWindow, "ip-window", 0,
		"Repeated-IP rule window (0 = default)")
	scanCmd.Flags().BoolVar(&noDefaultRules, "no-default-rules", false,
		"Disable the built-in anomaly rules")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !ValidFormats[format] {
		return fmt.Errorf("unknown format: %s", format)
	}

	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}

	var filter *query.Filter
	if filterExpr != "" {
		f, err := query.NewFilter(filterExpr)
		if err != nil {
			return err
		}
		filter = f
	}

	opts := []vlog.ScanOption{
		vlog.WithRepeatedIP(ipThreshold, ipWindow),
	}
	if noDefaultRules {
		opts = append(opts, vlog.WithoutDefaultRules())
	}
	if len(ruleFiles) > 0 {
		opts = append(opts, vlog.WithRuleFiles(ruleFiles...))
	}

	parser, err := buildParser(patternFiles)
	if err != nil {
		return err
	}
	if parser != nil {
		opts = append(opts, vlog.WithParser(parser))
	}

	// Diagnostics go to stderr so they never mix with jsonl on stdout.
	level := logging.ParseLevel(logLevel)
	if verbose {
		level = slog.LevelDebug
	}
	opts = append(opts, vlog.WithLogger(logging.New(os.Stderr, level)))

	report, err := vlog.ScanDir(ctx, dir, opts...)
	if err != nil {
		return err
	}

	timeline := report.Timeline
	if filter != nil {
		timeline, err = filter.Apply(timeline)
		if err != nil {
			return err
		}
	}

	return writeReport(cmd.OutOrStdout(), report, timeline)
}

// writeReport prints the selected sections. With no section flags set,
// everything is printed.
func writeReport(out io.Writer, report *vlog.Report, timeline []record.Record) error {
	all := !showSummary && !showTimeline && !showAlerts && !showMalformed

	if showSummary || all {
		if err := OutputSummary(format, BuildSummary(report), out); err != nil {
			return err
		}
		if visualize && format == "pretty" {
			RenderChart(out, timeline, defaultChartWidth)
		}
	}

	if showTimeline || all {
		if format == "pretty" && all {
			fmt.Fprintln(out, "\n== Timeline ==")
		}
		for _, rec := range timeline {
			if err := OutputRecord(format, rec, out); err != nil {
				return err
			}
		}
	}

	if showMalformed || all {
		if format == "pretty" && all && len(report.Malformed) > 0 {
			fmt.Fprintln(out, "\n== Malformed ==")
		}
		for _, m := range report.Malformed {
			if err := OutputMalformed(format, m, out); err != nil {
				return err
			}
		}
	}

	if showAlerts || all {
		if format == "pretty" && all && len(report.Anomalies) > 0 {
			fmt.Fprintln(out, "\n== Alerts ==")
		}
		for _, a := range report.Anomalies {
			if err := OutputAnomaly(format, a, out); err != nil {
				return err
			}
		}
	}

	return nil
}
