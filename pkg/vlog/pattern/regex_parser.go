package pattern

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/vlogscan/vlogscan-go/pkg/vlog"
	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// tsLayouts are the timestamp formats accepted in a ts capture group.
var tsLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// RegexParser is a Parser implementation that matches log lines using
// user-defined regular expression patterns from a YAML file.
//
// Named capture groups (?P<name>...) fill the record: the groups ts,
// subject, action, and target map to the Record fields of the same name,
// all other groups become Fields entries. The parser checks all patterns
// and can emit multiple records from a single line if multiple patterns
// match.
//
// RegexParser is safe for concurrent use by multiple goroutines.
type RegexParser struct {
	patterns []*compiledPattern
}

// compiledPattern represents a single compiled pattern with its metadata.
type compiledPattern struct {
	id       string
	category record.Category
	regex    *regexp.Regexp
}

// NewRegexParser creates a RegexParser from a PatternFile.
// This function compiles all regular expressions and validates their syntax.
// Returns an error if any pattern has invalid regex syntax.
func NewRegexParser(pf *PatternFile) (*RegexParser, error) {
	if pf == nil {
		return nil, fmt.Errorf("pattern file is nil")
	}

	patterns := make([]*compiledPattern, 0, len(pf.Patterns))
	for i, p := range pf.Patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, &PatternError{
				Index:   i,
				ID:      p.ID,
				Field:   "regex",
				Message: fmt.Sprintf("invalid regular expression: %v", err),
				Cause:   err,
			}
		}
		patterns = append(patterns, &compiledPattern{
			id:       p.ID,
			category: record.Category(p.Category),
			regex:    re,
		})
	}

	return &RegexParser{patterns: patterns}, nil
}

// NewRegexParserFromFile is a convenience function that loads a pattern file
// and creates a RegexParser in one step.
//
// Example:
//
//	parser, err := pattern.NewRegexParserFromFile("patterns.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewRegexParserFromFile(path string) (*RegexParser, error) {
	pf, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewRegexParser(pf)
}

// ParseLine implements the vlog.Parser interface.
// It matches the line against all patterns and returns all matching records,
// in the order patterns were defined in the file.
//
// The context parameter is currently unused but is provided for future
// enhancements (e.g., timeout support).
func (p *RegexParser) ParseLine(ctx context.Context, line string) (vlog.ParseResult, error) {
	var recs []record.Record

	for _, cp := range p.patterns {
		matches := cp.regex.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		recs = append(recs, cp.buildRecord(matches, line))
	}

	if len(recs) == 0 {
		return vlog.ParseResult{Matched: false}, nil
	}

	return vlog.ParseResult{
		Records: recs,
		Matched: true,
	}, nil
}

// buildRecord fills a Record from the capture groups of one match.
func (cp *compiledPattern) buildRecord(matches []string, line string) record.Record {
	rec := record.Record{
		Category: cp.category,
		Raw:      line,
	}

	// SubexpNames()[0] is always empty (the whole match), so start at 1.
	names := cp.regex.SubexpNames()
	for i := 1; i < len(names) && i < len(matches); i++ {
		name, val := names[i], matches[i]
		if name == "" || val == "" {
			continue
		}
		switch name {
		case "ts":
			if ts, ok := parseTimestamp(val); ok {
				rec.Timestamp = ts
			} else {
				rec.Fields = append(rec.Fields, record.Field{Key: name, Value: val})
			}
		case "subject":
			rec.Subject = val
		case "action":
			rec.Action = val
		case "target":
			rec.Target = val
		default:
			rec.Fields = append(rec.Fields, record.Field{Key: name, Value: val})
		}
	}
	return rec
}

// parseTimestamp interprets a ts capture group value, accepting unix
// seconds and the common textual layouts.
func parseTimestamp(s string) (time.Time, bool) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), true
	}
	for _, layout := range tsLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
