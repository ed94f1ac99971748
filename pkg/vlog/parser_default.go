package vlog

import (
	"context"

	"github.com/vlogscan/vlogscan-go/internal/parser"
	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// DefaultParser wraps the internal parser for the two built-in .vlog line
// shapes (native records and timestamped key=value lines).
type DefaultParser struct{}

// ParseLine implements the Parser interface.
// The context parameter is for future use (e.g., timeout/cancellation).
func (DefaultParser) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	rec, err := parser.Parse(line)
	if err != nil {
		return ParseResult{}, err
	}
	if rec == nil {
		return ParseResult{Matched: false}, nil
	}
	return ParseResult{Records: []record.Record{*rec}, Matched: true}, nil
}

// Ensure DefaultParser implements Parser.
var _ Parser = DefaultParser{}
