// Package timeline orders classified records into a single chronological
// sequence across all scanned files.
package timeline

import (
	"sort"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// Build returns the records sorted by timestamp ascending.
//
// The sort is stable: records with equal timestamps keep their encounter
// order (file enumeration order, then line order within a file).
// Timestamp-absent records are placed after all timestamped records, also in
// encounter order. The input slice is not modified.
func Build(recs []record.Record) []record.Record {
	out := make([]record.Record, len(recs))
	copy(out, recs)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.HasTimestamp() && b.HasTimestamp():
			return a.Timestamp.Before(b.Timestamp)
		case a.HasTimestamp():
			// Timestamped records sort before timestamp-absent ones.
			return true
		default:
			return false
		}
	})

	return out
}
