package vlog

import (
	"context"
	"errors"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// ParseResult represents the result of parsing a log line.
type ParseResult struct {
	// Records contains the parsed records.
	Records []record.Record

	// Matched indicates whether the parser recognized the input.
	// This can be true even if Records is empty (e.g., a filter that matches but outputs nothing).
	Matched bool
}

// Parser is the interface for log line parsers.
// Implementations include DefaultParser (the built-in .vlog grammars) and
// pattern.RegexParser (user-defined YAML patterns).
type Parser interface {
	// ParseLine parses a single log line.
	// Returns ParseResult with Matched=true if the line was recognized.
	// Returns error only for lines that are recognizably shaped but invalid
	// (not for unrecognized lines).
	ParseLine(ctx context.Context, line string) (ParseResult, error)
}

// ParserFunc is an adapter to allow ordinary functions to be used as Parsers.
type ParserFunc func(ctx context.Context, line string) (ParseResult, error)

// ParseLine implements the Parser interface.
func (f ParserFunc) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	return f(ctx, line)
}

// ChainMode specifies how ParserChain executes parsers.
type ChainMode int

const (
	// ChainAll executes all parsers and combines results (default).
	ChainAll ChainMode = iota

	// ChainFirst stops at the first parser that matches.
	ChainFirst

	// ChainContinueOnError skips parsers that return errors and continues.
	// Errors are collected and returned together at the end.
	ChainContinueOnError
)

// ParserChain combines multiple parsers.
type ParserChain struct {
	Mode    ChainMode
	Parsers []Parser
}

// ParseLine implements the Parser interface.
//
// If the context is cancelled during execution, ParseLine returns
// immediately with partial results and the context error.
func (c *ParserChain) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	var allRecords []record.Record
	var errs []error
	anyMatched := false

	for _, p := range c.Parsers {
		if err := ctx.Err(); err != nil {
			return ParseResult{Records: allRecords, Matched: anyMatched}, err
		}

		// Skip nil parsers
		if p == nil {
			continue
		}

		result, err := p.ParseLine(ctx, line)
		if err != nil {
			if c.Mode == ChainContinueOnError {
				errs = append(errs, err)
				continue
			}
			return ParseResult{}, err
		}
		if result.Matched {
			anyMatched = true
			allRecords = append(allRecords, result.Records...)
			if c.Mode == ChainFirst {
				return ParseResult{Records: allRecords, Matched: true}, nil
			}
		}
	}

	if len(errs) > 0 {
		return ParseResult{Records: allRecords, Matched: anyMatched}, errors.Join(errs...)
	}

	return ParseResult{Records: allRecords, Matched: anyMatched}, nil
}
