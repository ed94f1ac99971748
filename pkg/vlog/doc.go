// Package vlog provides forensic analysis of .vlog session log folders.
//
// This package allows you to:
//   - Parse .vlog lines into structured records
//   - Scan a whole folder into a chronological timeline
//   - Run anomaly rules over the timeline
//   - Define custom line shapes via YAML pattern files
//
// # Basic Usage
//
// To scan a folder of .vlog files:
//
//	report, err := vlog.ScanDir(context.Background(), "/var/log/sessions")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, rec := range report.Timeline {
//	    fmt.Printf("%s %s %s %s\n", rec.Category, rec.Subject, rec.Action, rec.Target)
//	}
//	for _, a := range report.Anomalies {
//	    fmt.Printf("[%s] %s: %s\n", a.Severity, a.RuleID, a.Explanation)
//	}
//
// Malformed lines never abort a scan; they are collected in
// Report.Malformed with the original text preserved. Unreadable files
// end up in Report.FileErrors and the rest of the folder is still
// processed.
//
// To parse a single line:
//
//	rec, err := vlog.ParseLine(line)
//	if err != nil {
//	    log.Printf("parse error: %v", err)
//	} else if rec != nil {
//	    // process record
//	}
//
// # Custom Parsers
//
// Implement the [Parser] interface for custom line shapes:
//
//	type Parser interface {
//	    ParseLine(ctx context.Context, line string) (ParseResult, error)
//	}
//
// Pass custom parsers to a scan with [WithParsers], or chain them
// manually with [ParserChain]. The pattern subpackage builds parsers
// from YAML files of regular expressions.
//
// # Custom Rules
//
// Implement the [Rule] interface and register it with [WithRules], or
// load expression rules from YAML files with [WithRuleFiles]. Rules
// only annotate: they never modify or reorder the timeline.
package vlog
