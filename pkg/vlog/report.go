package vlog

import (
	"fmt"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// FileError reports a file that could not be read during a scan. The rest
// of the folder is still processed.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e FileError) Unwrap() error { return e.Err }

// Report is the result bundle of one folder scan. It is handed to
// callers for summary generation, filtering, and rendering; the scan
// itself does no formatting.
type Report struct {
	// Timeline holds all parsed records in chronological order
	// (timestamp-absent records last, in encounter order).
	Timeline []record.Record

	// Malformed lists lines that matched no recognizable shape,
	// with the original text preserved.
	Malformed []record.Malformed

	// FileErrors lists files that could not be read.
	FileErrors []FileError

	// Anomalies holds rule findings, in rule registration order.
	// Record references are indexes into Timeline.
	Anomalies []record.Anomaly

	// FilesScanned counts the files read successfully.
	FilesScanned int
}
