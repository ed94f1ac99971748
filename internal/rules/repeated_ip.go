package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// Defaults for the repeated-IP rule.
const (
	DefaultRepeatedIPThreshold = 5
	DefaultRepeatedIPWindow    = 60 * time.Second
)

// connectionVerbs are the actions counted as connection attempts.
var connectionVerbs = map[string]bool{
	"connect": true, "conn": true, "dial": true, "login": true, "auth": true,
}

// RepeatedIP flags a network subject that makes more than Threshold
// connection attempts inside a sliding Window. Overlapping qualifying
// windows are merged, so one burst produces one anomaly.
type RepeatedIP struct {
	Threshold int
	Window    time.Duration
}

// NewRepeatedIP creates the rule. Non-positive parameters fall back to the
// documented defaults (Threshold 5, Window 60s).
func NewRepeatedIP(threshold int, window time.Duration) *RepeatedIP {
	if threshold <= 0 {
		threshold = DefaultRepeatedIPThreshold
	}
	if window <= 0 {
		window = DefaultRepeatedIPWindow
	}
	return &RepeatedIP{Threshold: threshold, Window: window}
}

func (r *RepeatedIP) ID() string { return "repeated_ip" }

func (r *RepeatedIP) Evaluate(tl []record.Record) []record.Anomaly {
	order, groups := subjectGroups(tl)

	var anomalies []record.Anomaly
	for _, subject := range order {
		var idxs []int
		for _, i := range groups[subject] {
			rec := tl[i]
			if rec.Category != record.CategoryNetwork || !rec.HasTimestamp() {
				continue
			}
			if !connectionVerbs[strings.ToLower(rec.Action)] {
				continue
			}
			idxs = append(idxs, i)
		}
		anomalies = append(anomalies, r.bursts(tl, subject, idxs)...)
	}
	return anomalies
}

// bursts finds maximal runs of attempts where some Window contains more
// than Threshold of them, and emits one anomaly per run.
func (r *RepeatedIP) bursts(tl []record.Record, subject string, idxs []int) []record.Anomaly {
	flagged := make([]bool, len(idxs))
	lo := 0
	for hi := range idxs {
		t := tl[idxs[hi]].Timestamp
		for t.Sub(tl[idxs[lo]].Timestamp) > r.Window {
			lo++
		}
		if hi-lo+1 > r.Threshold {
			for k := lo; k <= hi; k++ {
				flagged[k] = true
			}
		}
	}

	var anomalies []record.Anomaly
	for i := 0; i < len(idxs); {
		if !flagged[i] {
			i++
			continue
		}
		j := i
		for j < len(idxs) && flagged[j] {
			j++
		}
		run := make([]int, 0, j-i)
		for k := i; k < j; k++ {
			run = append(run, idxs[k])
		}
		span := tl[run[len(run)-1]].Timestamp.Sub(tl[run[0]].Timestamp)
		anomalies = append(anomalies, record.Anomaly{
			RuleID:   r.ID(),
			Severity: record.SeverityMedium,
			Records:  run,
			Subject:  subject,
			Explanation: fmt.Sprintf("%d connection attempts from %s within %s (threshold %d per %s)",
				len(run), subject, span.Round(time.Second), r.Threshold, r.Window),
		})
		i = j
	}
	return anomalies
}
