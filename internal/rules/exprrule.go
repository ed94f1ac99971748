package rules

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// Env is the evaluation environment a custom rule expression sees for each
// timeline record.
type Env struct {
	Category string
	Subject  string
	Action   string
	Target   string
	Source   string
	Line     int
	Raw      string

	// Unix is the record timestamp as a unix epoch, 0 when absent.
	Unix    int64
	HasTime bool

	Fields map[string]string
}

// Field returns a field value by key, "" if missing.
func (e Env) Field(key string) string { return e.Fields[key] }

// Has reports whether a field key is present.
func (e Env) Has(key string) bool {
	_, ok := e.Fields[key]
	return ok
}

// ExprRule is a user-defined rule compiled from an expression. The
// expression is evaluated once per record; every record it matches yields
// one anomaly.
type ExprRule struct {
	id          string
	severity    record.Severity
	explanation string
	program     *vm.Program
}

// CompileExpr compiles an expression into a rule. The expression must
// evaluate to a boolean over Env.
func CompileExpr(id, src, explanation string, severity record.Severity) (*ExprRule, error) {
	program, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, err
	}
	if severity == "" {
		severity = record.SeverityMedium
	}
	if explanation == "" {
		explanation = "matched rule " + id
	}
	return &ExprRule{
		id:          id,
		severity:    severity,
		explanation: explanation,
		program:     program,
	}, nil
}

func (r *ExprRule) ID() string { return r.id }

func (r *ExprRule) Evaluate(tl []record.Record) []record.Anomaly {
	var anomalies []record.Anomaly
	for i, rec := range tl {
		out, err := expr.Run(r.program, envFor(rec))
		if err != nil {
			// A failing expression on one record must not abort the scan.
			continue
		}
		matched, ok := out.(bool)
		if !ok || !matched {
			continue
		}
		anomalies = append(anomalies, record.Anomaly{
			RuleID:      r.id,
			Severity:    r.severity,
			Records:     []int{i},
			Subject:     rec.Subject,
			Explanation: r.explanation,
		})
	}
	return anomalies
}

func envFor(rec record.Record) Env {
	fields := make(map[string]string, len(rec.Fields))
	for _, f := range rec.Fields {
		// First occurrence wins for duplicate keys, matching Record.Field.
		if _, ok := fields[f.Key]; !ok {
			fields[f.Key] = f.Value
		}
	}
	env := Env{
		Category: string(rec.Category),
		Subject:  rec.Subject,
		Action:   rec.Action,
		Target:   rec.Target,
		Source:   rec.Source,
		Line:     rec.Line,
		Raw:      rec.Raw,
		HasTime:  rec.HasTimestamp(),
		Fields:   fields,
	}
	if env.HasTime {
		env.Unix = rec.Timestamp.Unix()
	}
	return env
}
