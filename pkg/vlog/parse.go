package vlog

import (
	"github.com/vlogscan/vlogscan-go/internal/parser"
	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// ParseLine parses a single .vlog line into a Record.
//
// Return values:
//   - (*Record, nil): successfully parsed record
//   - (nil, nil): line doesn't match any known shape (not an error)
//   - (nil, error): line partially matches but is malformed
//
// Example:
//
//	line := "2024-01-01T10:00:00 user=alice action=login ip=10.0.0.5"
//	rec, err := vlog.ParseLine(line)
//	if err != nil {
//	    log.Printf("parse error: %v", err)
//	} else if rec != nil {
//	    fmt.Printf("%s %s\n", rec.Subject, rec.Action)
//	}
//	// rec == nil && err == nil means the line is not a recognized record
func ParseLine(line string) (*record.Record, error) {
	return parser.Parse(line)
}
