package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// Defaults for the sequence rules.
const (
	DefaultSequenceLookahead = 5
	DefaultShadowWindow      = 10 * time.Minute
)

// ShadowDelete flags a shadow-load action (SHD) followed shortly by a
// delete (DEL) from the same subject: the signature of loading a payload
// and covering the traces.
type ShadowDelete struct {
	Lookahead int
	Window    time.Duration
}

// NewShadowDelete creates the rule. Non-positive parameters fall back to
// the defaults (5 records lookahead, 10 minute window).
func NewShadowDelete(lookahead int, window time.Duration) *ShadowDelete {
	if lookahead <= 0 {
		lookahead = DefaultSequenceLookahead
	}
	if window <= 0 {
		window = DefaultShadowWindow
	}
	return &ShadowDelete{Lookahead: lookahead, Window: window}
}

func (r *ShadowDelete) ID() string { return "shadow_delete" }

func (r *ShadowDelete) Evaluate(tl []record.Record) []record.Anomaly {
	order, groups := subjectGroups(tl)

	var anomalies []record.Anomaly
	for _, subject := range order {
		idxs := groups[subject]
		for pos, i := range idxs {
			if !actionHas(tl[i], "SHD") {
				continue
			}
			for k := pos + 1; k < len(idxs) && k <= pos+r.Lookahead; k++ {
				j := idxs[k]
				if !actionHas(tl[j], "DEL") {
					continue
				}
				if !withinWindow(tl[i], tl[j], r.Window) {
					continue
				}
				anomalies = append(anomalies, record.Anomaly{
					RuleID:      r.ID(),
					Severity:    record.SeverityHigh,
					Records:     []int{i, j},
					Subject:     subject,
					Explanation: fmt.Sprintf("shadow load followed by delete of %s", tl[j].Target),
				})
			}
		}
	}
	return anomalies
}

// CreateDelete flags a create (CRE) followed within Lookahead records by a
// delete (DEL) of the same target by the same subject.
type CreateDelete struct {
	Lookahead int
}

// NewCreateDelete creates the rule with the default lookahead when
// lookahead is non-positive.
func NewCreateDelete(lookahead int) *CreateDelete {
	if lookahead <= 0 {
		lookahead = DefaultSequenceLookahead
	}
	return &CreateDelete{Lookahead: lookahead}
}

func (r *CreateDelete) ID() string { return "create_delete" }

func (r *CreateDelete) Evaluate(tl []record.Record) []record.Anomaly {
	order, groups := subjectGroups(tl)

	var anomalies []record.Anomaly
	for _, subject := range order {
		idxs := groups[subject]
		for pos, i := range idxs {
			if !actionHas(tl[i], "CRE") || tl[i].Target == "" {
				continue
			}
			created := tl[i].Target
			for k := pos + 1; k < len(idxs) && k <= pos+r.Lookahead; k++ {
				j := idxs[k]
				if !actionHas(tl[j], "DEL") || !strings.Contains(tl[j].Target, created) {
					continue
				}
				anomalies = append(anomalies, record.Anomaly{
					RuleID:      r.ID(),
					Severity:    record.SeverityMedium,
					Records:     []int{i, j},
					Subject:     subject,
					Explanation: fmt.Sprintf("created then deleted %s", created),
				})
			}
		}
	}
	return anomalies
}

// actionHas reports whether the record's action contains the given native
// action code, case-insensitively. Matches both native codes ("DEL") and
// loose verbs containing them ("delete").
func actionHas(rec record.Record, code string) bool {
	return strings.Contains(strings.ToUpper(rec.Action), code)
}

// withinWindow reports whether b happened no later than window after a.
// Records without timestamps pass the check: record proximity already
// bounds the lookahead.
func withinWindow(a, b record.Record, window time.Duration) bool {
	if !a.HasTimestamp() || !b.HasTimestamp() {
		return true
	}
	d := b.Timestamp.Sub(a.Timestamp)
	return d >= 0 && d <= window
}
