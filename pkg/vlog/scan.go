package vlog

import (
	"context"
	"fmt"
	"strings"

	"github.com/vlogscan/vlogscan-go/internal/classify"
	"github.com/vlogscan/vlogscan-go/internal/reader"
	"github.com/vlogscan/vlogscan-go/internal/rules"
	"github.com/vlogscan/vlogscan-go/internal/timeline"
	"github.com/vlogscan/vlogscan-go/internal/vlogfinder"
	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// ScanDir runs the full pipeline over every .vlog file in dir: parse each
// line, classify the records, assemble the timeline, and evaluate anomaly
// rules.
//
// A missing or non-directory path fails immediately, before any parsing.
// Everything after that is recoverable: unparseable lines become Malformed
// entries and unreadable files become FileErrors, and the scan continues.
// An empty folder yields an empty Report and no error.
//
// Given identical input files and options, ScanDir returns an identical
// Report: files are enumerated in lexical order and the timeline sort is
// stable.
func ScanDir(ctx context.Context, dir string, opts ...ScanOption) (*Report, error) {
	cfg := applyScanOptions(opts)

	resolved, err := vlogfinder.ResolveDir(dir)
	if err != nil {
		return nil, err
	}
	files, err := vlogfinder.ListLogFiles(resolved)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	var recs []record.Record

	for _, path := range files {
		err := reader.ReadLines(ctx, path, func(raw record.RawLine) error {
			recs = scanLine(ctx, cfg, raw, recs, report)
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Unreadable file: report it and keep partial results.
			report.FileErrors = append(report.FileErrors, FileError{Path: path, Err: err})
			if cfg.logger != nil {
				cfg.logger.Warn("skipping unreadable file", "path", path, "error", err)
			}
			continue
		}
		report.FilesScanned++
	}

	report.Timeline = timeline.Build(recs)
	report.Anomalies = engine.Evaluate(report.Timeline)

	if cfg.logger != nil {
		cfg.logger.Debug("scan complete",
			"files", report.FilesScanned,
			"records", len(report.Timeline),
			"malformed", len(report.Malformed),
			"anomalies", len(report.Anomalies))
	}
	return report, nil
}

// scanLine parses one raw line into records or a malformed entry.
// Whitespace-only lines are skipped entirely.
func scanLine(ctx context.Context, cfg *scanConfig, raw record.RawLine, recs []record.Record, report *Report) []record.Record {
	if strings.TrimSpace(raw.Text) == "" {
		return recs
	}

	res, err := cfg.parser.ParseLine(ctx, raw.Text)
	if err != nil {
		report.Malformed = append(report.Malformed, record.Malformed{
			Source: raw.Source,
			Line:   raw.Line,
			Raw:    raw.Text,
			Reason: err.Error(),
		})
		return recs
	}
	if !res.Matched {
		report.Malformed = append(report.Malformed, record.Malformed{
			Source: raw.Source,
			Line:   raw.Line,
			Raw:    raw.Text,
			Reason: "no known line shape matched",
		})
		return recs
	}

	for _, rec := range res.Records {
		rec.Source = raw.Source
		rec.Line = raw.Line
		if rec.Raw == "" {
			rec.Raw = raw.Text
		}
		if rec.Category == "" {
			rec.Category = classify.Categorize(rec)
		}
		recs = append(recs, rec)
	}
	return recs
}

// buildEngine assembles the rule registry for one run. Rule instances are
// constructed fresh so no state carries over between scans.
func buildEngine(cfg *scanConfig) (*rules.Engine, error) {
	engine := rules.NewEngine()

	if !cfg.noDefaultRules {
		engine.Register(rules.NewRepeatedIP(cfg.ipThreshold, cfg.ipWindow))
		engine.Register(rules.NewNewAction())
		engine.Register(rules.NewUnknownSpike(0, 0))
		engine.Register(rules.NewShadowDelete(0, 0))
		engine.Register(rules.NewCreateDelete(0))
		engine.Register(rules.NewSuspiciousExec(nil))
		engine.Register(rules.NewBinaryDelete())
	}
	for _, r := range cfg.extraRules {
		engine.Register(r)
	}
	for _, path := range cfg.ruleFiles {
		loaded, err := rules.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("rule file %s: %w", path, err)
		}
		for _, r := range loaded {
			engine.Register(r)
		}
	}
	return engine, nil
}
