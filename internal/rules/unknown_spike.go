package rules

import (
	"fmt"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// Defaults for the unknown-spike rule.
const (
	DefaultSpikeWindow    = 20
	DefaultSpikeThreshold = 0.5
	defaultSpikeMinWindow = 10
)

// UnknownSpike flags chunks of the timeline where the proportion of
// unknown-category records exceeds Threshold. The timeline is split into
// non-overlapping chunks of Window records; a trailing chunk shorter than
// minWindow is not judged, since a ratio over a couple of records is noise.
type UnknownSpike struct {
	Window    int
	Threshold float64

	minWindow int
}

// NewUnknownSpike creates the rule. Non-positive parameters fall back to
// the defaults (Window 20 records, Threshold 0.5).
func NewUnknownSpike(window int, threshold float64) *UnknownSpike {
	if window <= 0 {
		window = DefaultSpikeWindow
	}
	if threshold <= 0 {
		threshold = DefaultSpikeThreshold
	}
	minWindow := defaultSpikeMinWindow
	if minWindow > window {
		minWindow = window
	}
	return &UnknownSpike{Window: window, Threshold: threshold, minWindow: minWindow}
}

func (r *UnknownSpike) ID() string { return "unknown_spike" }

func (r *UnknownSpike) Evaluate(tl []record.Record) []record.Anomaly {
	var anomalies []record.Anomaly
	for start := 0; start < len(tl); start += r.Window {
		end := start + r.Window
		if end > len(tl) {
			end = len(tl)
		}
		if end-start < r.minWindow {
			break
		}

		var unknown []int
		for i := start; i < end; i++ {
			if tl[i].Category == record.CategoryUnknown {
				unknown = append(unknown, i)
			}
		}
		ratio := float64(len(unknown)) / float64(end-start)
		if ratio <= r.Threshold {
			continue
		}
		anomalies = append(anomalies, record.Anomaly{
			RuleID:   r.ID(),
			Severity: record.SeverityMedium,
			Records:  unknown,
			Explanation: fmt.Sprintf("%d of %d records in window are unclassifiable (%.0f%%, threshold %.0f%%)",
				len(unknown), end-start, ratio*100, r.Threshold*100),
		})
	}
	return anomalies
}
