package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// ValidFormats lists all valid output formats.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

// severityMarks prefix pretty anomaly lines so severities stand out in a
// terminal scroll.
var severityMarks = map[record.Severity]string{
	record.SeverityLow:    "-",
	record.SeverityMedium: "!",
	record.SeverityHigh:   "!!",
}

// OutputRecord writes a timeline record in the specified format.
func OutputRecord(format string, rec record.Record, out io.Writer) error {
	switch format {
	case "jsonl":
		return outputJSON(rec, out)
	case "pretty":
		return outputRecordPretty(rec, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputMalformed writes a malformed entry in the specified format.
func OutputMalformed(format string, m record.Malformed, out io.Writer) error {
	switch format {
	case "jsonl":
		return outputJSON(m, out)
	case "pretty":
		_, err := fmt.Fprintf(out, "[--------] malformed %s:%d %s (%s)\n",
			m.Source, m.Line, quoteIfNeeded(m.Raw), m.Reason)
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputAnomaly writes an anomaly in the specified format.
func OutputAnomaly(format string, a record.Anomaly, out io.Writer) error {
	switch format {
	case "jsonl":
		return outputJSON(a, out)
	case "pretty":
		mark := severityMarks[a.Severity]
		if mark == "" {
			mark = "?"
		}
		_, err := fmt.Fprintf(out, "%-2s [%s] %s: %s (%d records)\n",
			mark, a.Severity, a.RuleID, a.Explanation, len(a.Records))
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// outputJSON writes any value as one JSON Lines entry.
func outputJSON(v any, out io.Writer) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// outputRecordPretty writes one timeline record as a human-readable line:
//
//	[10:00:00] user_activity alice login  ip=10.0.0.5
func outputRecordPretty(rec record.Record, out io.Writer) error {
	ts := "--:--:--"
	if rec.HasTimestamp() {
		ts = rec.Timestamp.Format("15:04:05")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %-13s", ts, rec.Category)
	if rec.Subject != "" {
		sb.WriteByte(' ')
		sb.WriteString(quoteIfNeeded(rec.Subject))
	}
	if rec.Action != "" {
		sb.WriteByte(' ')
		sb.WriteString(quoteIfNeeded(rec.Action))
	}
	if rec.Target != "" {
		sb.WriteString(" -> ")
		sb.WriteString(quoteIfNeeded(rec.Target))
	}
	if len(rec.Fields) > 0 {
		sb.WriteString("  ")
		sb.WriteString(formatFields(rec.Fields))
	}

	_, err := fmt.Fprintln(out, sb.String())
	return err
}

// formatFields renders key=value pairs in their extraction order.
func formatFields(fields []record.Field) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s=%s", quoteIfNeeded(f.Key), quoteIfNeeded(f.Value)))
	}
	return strings.Join(parts, " ")
}

// quoteIfNeeded quotes a value if it contains special characters or control characters.
// Returns the value unchanged if no quoting is needed.
func quoteIfNeeded(v string) string {
	if v == "" {
		return `""`
	}

	needsQuote := false
	for _, c := range v {
		if c == ' ' || c == '=' || c == '"' || c == '\\' || c < 0x20 || c == 0x7F {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return v
	}

	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range v {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c == 0x7F:
			sb.WriteString(fmt.Sprintf(`\x%02x`, c))
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
