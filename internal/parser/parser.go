// Package parser converts single .vlog lines into structured records.
//
// Parsing is heuristic, not grammatical: the format is undocumented, so the
// parser tries known shapes in order and degrades to "unrecognized" instead
// of failing. It is stateless across lines and safe for any input bytes.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// Parse parses one log line.
//
// Returns:
//   - (*Record, nil): successfully parsed (timestamp may be absent)
//   - (nil, nil): no recognizable shape (caller records it as malformed)
//   - (nil, error): recognizably shaped but structurally invalid
//
// The returned record has Subject, Action, Target, Fields, Timestamp and Raw
// populated; Source, Line and Category are filled in by the caller.
func Parse(line string) (*record.Record, error) {
	// Trim trailing CR for Windows CRLF compatibility
	line = strings.TrimRight(line, "\r")

	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	if m := nativePattern.FindStringSubmatch(line); m != nil {
		return parseNative(line, m)
	}
	if nativePrefixPattern.MatchString(line) {
		return nil, fmt.Errorf("native record prefix with invalid body")
	}

	return parseLoose(line)
}

// parseNative builds a record from a native-shape match.
func parseNative(line string, m []string) (*record.Record, error) {
	sec, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("native record timestamp %q out of range", m[2])
	}

	return &record.Record{
		Timestamp: time.Unix(sec, 0),
		Subject:   strings.TrimSpace(m[6]),
		Action:    strings.TrimSpace(m[4]),
		Target:    strings.TrimSpace(m[7]),
		Fields: []record.Field{
			{Key: "log_id", Value: m[1]},
			{Key: "event_type", Value: strings.TrimSpace(m[3])},
			{Key: "actor_type", Value: strings.TrimSpace(m[5])},
		},
		Raw: line,
	}, nil
}

// parseLoose handles the "[timestamp] key=value ..." shape. A line qualifies
// if it contains at least one key=value pair; a missing or unparseable
// timestamp leaves the record timestamp-absent rather than discarding it.
func parseLoose(line string) (*record.Record, error) {
	ts, rest := extractTimestamp(line)

	pairs := extractPairs(rest)
	if len(pairs) == 0 {
		return nil, nil
	}

	rec := &record.Record{
		Timestamp: ts,
		Fields:    pairs,
		Raw:       line,
	}

	rec.Subject = firstValue(pairs, subjectKeys)
	rec.Action = firstValue(pairs, actionKeys)
	rec.Target = firstValue(pairs, targetKeys)

	// Fall back to an embedded ts/time field when the line head had none.
	if rec.Timestamp.IsZero() {
		rec.Timestamp = timestampFromFields(pairs)
	}

	return rec, nil
}

// extractTimestamp tries the known layouts against the head of the line.
// Returns the parsed time (zero if none) and the remainder of the line.
func extractTimestamp(line string) (time.Time, string) {
	trimmed := strings.TrimLeft(line, " \t")
	first, rest, _ := strings.Cut(trimmed, " ")

	// Single-token layouts (RFC3339 and the T-separated local form).
	for _, layout := range timestampLayouts[:2] {
		if ts, err := time.ParseInLocation(layout, first, time.Local); err == nil {
			return ts, rest
		}
	}

	// Two-token layout: "2006-01-02 15:04:05".
	second, tail, _ := strings.Cut(rest, " ")
	if second != "" {
		if ts, err := time.ParseInLocation(timestampLayouts[2], first+" "+second, time.Local); err == nil {
			return ts, tail
		}
	}

	return time.Time{}, trimmed
}

// extractPairs collects key=value tokens in order of appearance.
func extractPairs(s string) []record.Field {
	matches := kvPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}

	pairs := make([]record.Field, 0, len(matches))
	for _, m := range matches {
		pairs = append(pairs, record.Field{Key: m[1], Value: unquote(m[2])})
	}
	return pairs
}

// unquote strips surrounding double quotes and unescapes the value.
// Invalid escapes fall back to a plain quote strip.
func unquote(v string) string {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return v
	}
	if u, err := strconv.Unquote(v); err == nil {
		return u
	}
	return v[1 : len(v)-1]
}

// firstValue returns the value of the first key from keys present in pairs.
func firstValue(pairs []record.Field, keys []string) string {
	for _, k := range keys {
		for _, p := range pairs {
			if p.Key == k && p.Value != "" {
				return p.Value
			}
		}
	}
	return ""
}

// timestampFromFields recognizes ts/time fields carrying a unix epoch or an
// RFC3339 value.
func timestampFromFields(pairs []record.Field) time.Time {
	for _, p := range pairs {
		if p.Key != "ts" && p.Key != "time" && p.Key != "timestamp" {
			continue
		}
		if sec, err := strconv.ParseInt(p.Value, 10, 64); err == nil {
			return time.Unix(sec, 0)
		}
		if ts, err := time.Parse(time.RFC3339, p.Value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
