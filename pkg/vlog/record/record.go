// Package record defines the data types flowing through the vlogscan
// pipeline: raw lines, parsed records, malformed entries, and anomalies.
package record

import "time"

// Category is the classification assigned to a parsed record.
type Category string

// Known categories, in classification priority order.
const (
	CategoryNetwork      Category = "network"
	CategoryFileOp       Category = "file_op"
	CategoryProcess      Category = "process"
	CategoryUserActivity Category = "user_activity"
	CategoryUnknown      Category = "unknown"
)

// Severity ranks how suspicious an anomaly is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RawLine is a single line as read from a .vlog file, before parsing.
type RawLine struct {
	// Source is the base name of the file the line came from.
	Source string `json:"source"`

	// Line is the 1-based line number within the file.
	Line int `json:"line"`

	// Text is the raw line content without the trailing newline.
	Text string `json:"text"`
}

// Field is a single key/value pair extracted from a log line.
// Fields keep their original order, so a slice is used instead of a map.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Record is a successfully parsed log line.
//
// A zero Timestamp means the line matched a known shape but carried no
// extractable timestamp. Records are not mutated after creation.
type Record struct {
	// Timestamp is the parsed event time. Zero if absent.
	Timestamp time.Time `json:"timestamp,omitzero"`

	// Category is assigned by the classifier, CategoryUnknown if nothing matched.
	Category Category `json:"category"`

	// Subject identifies who or what acted: a user name, an IP, or a process id.
	Subject string `json:"subject,omitempty"`

	// Action is the verb extracted from the line (e.g. "login", "CRE", "connect").
	Action string `json:"action,omitempty"`

	// Target is what the action applied to: a path, a host, a process.
	Target string `json:"target,omitempty"`

	// Fields holds the remaining key/value pairs in extraction order.
	Fields []Field `json:"fields,omitempty"`

	// Source and Line locate the originating raw line.
	Source string `json:"source"`
	Line   int    `json:"line"`

	// Raw is the original line text.
	Raw string `json:"raw,omitempty"`
}

// HasTimestamp reports whether the record carries an extracted timestamp.
func (r Record) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}

// Field returns the value of the first field with the given key,
// or "" if no such field exists.
func (r Record) Field(key string) string {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// Malformed is a line that matched no recognizable record shape.
// It is terminal: malformed entries are reported, never reparsed.
type Malformed struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

// Anomaly is a deviation flagged by a rule over the timeline.
// Anomalies reference timeline records by index and are read-only.
type Anomaly struct {
	// RuleID names the rule that produced the anomaly.
	RuleID string `json:"rule_id"`

	Severity Severity `json:"severity"`

	// Records are indexes into the timeline this anomaly refers to.
	Records []int `json:"records"`

	// Subject is the actor the anomaly concerns, when the rule tracks one.
	Subject string `json:"subject,omitempty"`

	// Explanation is a human-readable description of what was flagged.
	Explanation string `json:"explanation"`
}
