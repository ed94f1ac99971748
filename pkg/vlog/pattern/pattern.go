// Package pattern provides custom line shapes for .vlog files.
// It allows users to define their own record grammars via YAML configuration
// files with regular expression patterns.
package pattern

// PatternFile represents the structure of a YAML pattern file.
// Pattern files allow users to teach the scanner additional line shapes
// using regular expressions.
//
// Example YAML file:
//
//	version: 1
//	patterns:
//	  - id: sshd_accepted
//	    category: user_activity
//	    regex: 'sshd: Accepted \w+ for (?P<subject>\S+) from (?P<target>\S+)'
//	  - id: cron_exec
//	    category: process
//	    regex: 'CRON\[(?P<pid>\d+)\]: \((?P<subject>\w+)\) CMD \((?P<target>.+)\)'
type PatternFile struct {
	// Version is the pattern file format version. Currently only version 1 is supported.
	Version int `yaml:"version"`

	// Patterns is the list of pattern definitions.
	Patterns []Pattern `yaml:"patterns"`
}

// Pattern represents a single line shape definition.
// Each pattern consists of a unique identifier, an optional category, and a
// regular expression. The regex may contain named capture groups
// (?P<name>...): the groups ts, subject, action, and target map to the
// corresponding Record fields, all other groups become key=value Fields.
type Pattern struct {
	// ID is a unique identifier for this pattern (e.g., "sshd_accepted").
	// IDs must be unique within a pattern file.
	ID string `yaml:"id"`

	// Category is the record category to assign on match. When empty, the
	// scanner's classifier decides from the extracted fields.
	Category string `yaml:"category"`

	// Regex is the regular expression pattern to match against log lines.
	// Named capture groups (?P<name>...) fill the record.
	Regex string `yaml:"regex"`
}
