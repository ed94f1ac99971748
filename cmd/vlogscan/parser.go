package main

import (
	"fmt"

	"github.com/vlogscan/vlogscan-go/pkg/vlog"
	"github.com/vlogscan/vlogscan-go/pkg/vlog/pattern"
)

// buildParser builds a Parser from pattern file paths.
// Returns nil if no pattern files are specified (use default parser).
func buildParser(patternFiles []string) (vlog.Parser, error) {
	if len(patternFiles) == 0 {
		return nil, nil
	}

	parsers := []vlog.Parser{vlog.DefaultParser{}}
	for i, path := range patternFiles {
		rp, err := pattern.NewRegexParserFromFile(path)
		if err != nil {
			// Error from pattern package is already sanitized (no path)
			return nil, fmt.Errorf("pattern file %d: %w", i+1, err)
		}
		parsers = append(parsers, rp)
	}

	// ChainFirst keeps the built-in grammars authoritative: custom shapes
	// only see lines the default parser did not recognize.
	return &vlog.ParserChain{
		Mode:    vlog.ChainFirst,
		Parsers: parsers,
	}, nil
}
