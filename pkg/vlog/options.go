package vlog

import (
	"log/slog"
	"time"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// Rule is a single anomaly check over the timeline. Implementations must
// be pure: evaluating the same timeline twice yields identical anomalies.
type Rule interface {
	// ID returns the stable rule identifier used in Anomaly.RuleID.
	ID() string

	// Evaluate scans the timeline and returns the anomalies found.
	// It must not reorder or modify the timeline.
	Evaluate(tl []record.Record) []record.Anomaly
}

// ScanOption configures ScanDir behavior using the functional options pattern.
type ScanOption func(*scanConfig)

// scanConfig holds internal configuration for a scan.
type scanConfig struct {
	parser         Parser
	extraRules     []Rule
	ruleFiles      []string
	noDefaultRules bool
	ipThreshold    int
	ipWindow       time.Duration
	logger         *slog.Logger
}

// defaultScanConfig returns a scanConfig with sensible defaults.
func defaultScanConfig() *scanConfig {
	return &scanConfig{
		parser: DefaultParser{},
	}
}

// applyScanOptions applies functional options to a scanConfig.
func applyScanOptions(opts []ScanOption) *scanConfig {
	cfg := defaultScanConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithParser sets a custom parser for log lines.
// If p is nil, this option has no effect (the default parser remains active).
func WithParser(p Parser) ScanOption {
	return func(c *scanConfig) {
		if p != nil {
			c.parser = p
		}
	}
}

// WithParsers combines the default parser with additional parsers using
// ChainFirst mode: the first parser recognizing a line wins, so custom
// grammars extend the built-in ones without double-emitting records.
func WithParsers(parsers ...Parser) ScanOption {
	return func(c *scanConfig) {
		if len(parsers) == 0 {
			return
		}
		chain := append([]Parser{DefaultParser{}}, parsers...)
		c.parser = &ParserChain{Mode: ChainFirst, Parsers: chain}
	}
}

// WithRules registers additional anomaly rules, evaluated after the
// built-in ones in the given order.
func WithRules(rules ...Rule) ScanOption {
	return func(c *scanConfig) {
		c.extraRules = append(c.extraRules, rules...)
	}
}

// WithRuleFiles loads user-defined expression rules from YAML files.
// Invalid rule files fail the scan before any parsing begins.
func WithRuleFiles(paths ...string) ScanOption {
	return func(c *scanConfig) {
		c.ruleFiles = append(c.ruleFiles, paths...)
	}
}

// WithoutDefaultRules disables the built-in anomaly rules. Combine with
// WithRules or WithRuleFiles to run a custom rule set only.
func WithoutDefaultRules() ScanOption {
	return func(c *scanConfig) {
		c.noDefaultRules = true
	}
}

// WithRepeatedIP overrides the repeated-IP rule parameters: more than
// threshold connection attempts from one subject within window are
// flagged. Non-positive values keep the defaults (5 attempts, 60s).
func WithRepeatedIP(threshold int, window time.Duration) ScanOption {
	return func(c *scanConfig) {
		c.ipThreshold = threshold
		c.ipWindow = window
	}
}

// WithLogger sets a logger for scan diagnostics.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) ScanOption {
	return func(c *scanConfig) {
		c.logger = logger
	}
}
