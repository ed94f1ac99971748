package rules

import (
	"fmt"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// NewAction flags a user-activity record whose action verb was never
// observed before for that subject. A subject's first record only
// establishes the baseline and is not flagged.
type NewAction struct{}

// NewNewAction creates the rule.
func NewNewAction() *NewAction { return &NewAction{} }

func (r *NewAction) ID() string { return "new_action" }

func (r *NewAction) Evaluate(tl []record.Record) []record.Anomaly {
	seen := make(map[string]map[string]bool)

	var anomalies []record.Anomaly
	for i, rec := range tl {
		if rec.Category != record.CategoryUserActivity || rec.Subject == "" || rec.Action == "" {
			continue
		}
		actions := seen[rec.Subject]
		if actions == nil {
			// Baseline: the first action seen for a subject is expected.
			seen[rec.Subject] = map[string]bool{rec.Action: true}
			continue
		}
		if actions[rec.Action] {
			continue
		}
		actions[rec.Action] = true
		anomalies = append(anomalies, record.Anomaly{
			RuleID:      r.ID(),
			Severity:    record.SeverityLow,
			Records:     []int{i},
			Subject:     rec.Subject,
			Explanation: fmt.Sprintf("first occurrence of action %q for subject %s", rec.Action, rec.Subject),
		})
	}
	return anomalies
}
