// Package rules evaluates deterministic anomaly rules over a timeline.
//
// Each rule is an independent unit: it receives the ordered timeline and
// returns the anomalies it found, without reordering or deleting records.
// Rules keep no state between Evaluate calls, so evaluating the same
// timeline twice yields identical results.
package rules

import "github.com/vlogscan/vlogscan-go/pkg/vlog/record"

// Rule is a single anomaly check over the full timeline.
type Rule interface {
	// ID returns the stable rule identifier used in Anomaly.RuleID.
	ID() string

	// Evaluate scans the timeline and returns the anomalies found.
	// Implementations must be pure: same input, same output.
	Evaluate(tl []record.Record) []record.Anomaly
}

// Engine runs a registry of rules in registration order.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with the given rules.
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// Register appends a rule to the registry.
func (e *Engine) Register(r Rule) {
	if r != nil {
		e.rules = append(e.rules, r)
	}
}

// Rules returns the registered rules in evaluation order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Evaluate runs every rule against the timeline and concatenates the
// results in registration order. The timeline is never modified.
func (e *Engine) Evaluate(tl []record.Record) []record.Anomaly {
	var anomalies []record.Anomaly
	for _, r := range e.rules {
		anomalies = append(anomalies, r.Evaluate(tl)...)
	}
	return anomalies
}

// Defaults returns fresh instances of all built-in rules with their
// default parameters. Instances are constructed per call so no state can
// leak between runs.
func Defaults() []Rule {
	return []Rule{
		NewRepeatedIP(0, 0),
		NewNewAction(),
		NewUnknownSpike(0, 0),
		NewShadowDelete(0, 0),
		NewCreateDelete(0),
		NewSuspiciousExec(nil),
		NewBinaryDelete(),
	}
}

// subjectGroups partitions timeline indexes by record subject, preserving
// first-seen subject order and per-subject timeline order. Used by rules
// that reason per actor; the deterministic order keeps output stable.
func subjectGroups(tl []record.Record) (order []string, groups map[string][]int) {
	groups = make(map[string][]int)
	for i, rec := range tl {
		if rec.Subject == "" {
			continue
		}
		if _, ok := groups[rec.Subject]; !ok {
			order = append(order, rec.Subject)
		}
		groups[rec.Subject] = append(groups[rec.Subject], i)
	}
	return order, groups
}
