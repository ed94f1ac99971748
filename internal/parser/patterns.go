package parser

import "regexp"

// The .vlog format is undocumented; these patterns were reverse-engineered
// from captured files. Two line shapes are recognized.
var (
	// Native record shape:
	//   0x7F3A[ts:1704103200]|EVNT:FILE!@CRE_USR:alice=>/tmp/payload.bin
	// Captures: (1) log id, (2) unix timestamp, (3) event type,
	// (4) action, (5) actor type, (6) actor, (7) target.
	// The "=>" arrow appears with one or more '=' in the wild.
	nativePattern = regexp.MustCompile(
		`^(0x[0-9a-fA-F]+)\[ts:(\d+)\]\|EVNT:([^!|]+)!@([^_]+)_([^:]+):([^=]+)=+>(.+)$`,
	)

	// A line that starts like a native record but fails the full pattern is
	// reported as malformed rather than unrecognized.
	nativePrefixPattern = regexp.MustCompile(`^0x[0-9a-fA-F]+\[ts:`)

	// key=value token within a loose line. Values may be double-quoted to
	// carry spaces; quotes are stripped during extraction.
	kvPattern = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_.-]*)=("(?:[^"\\]|\\.)*"|\S*)`)
)

// Timestamp layouts tried, in order, against the head of a loose line.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00", // RFC3339
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Keys checked, in priority order, when choosing the record subject,
// action, and target from extracted key=value pairs.
var (
	subjectKeys = []string{"user", "actor", "subject", "ip", "src", "pid", "proc"}
	actionKeys  = []string{"action", "verb", "op", "event"}
	targetKeys  = []string{"target", "path", "file", "dest", "dst", "host"}
)
