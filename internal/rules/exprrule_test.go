package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

func TestCompileExpr_Match(t *testing.T) {
	rule, err := CompileExpr("tmp_exec",
		`Category == "process" && Target startsWith "/tmp/"`,
		"execution out of /tmp", record.SeverityHigh)
	require.NoError(t, err)

	tl := []record.Record{
		{Timestamp: time.Unix(100, 0), Category: record.CategoryProcess, Subject: "bob", Action: "exec", Target: "/tmp/dropper"},
		{Timestamp: time.Unix(110, 0), Category: record.CategoryProcess, Subject: "bob", Action: "exec", Target: "/usr/bin/ls"},
	}

	got := rule.Evaluate(tl)
	require.Len(t, got, 1)
	assert.Equal(t, "tmp_exec", got[0].RuleID)
	assert.Equal(t, record.SeverityHigh, got[0].Severity)
	assert.Equal(t, []int{0}, got[0].Records)
	assert.Equal(t, "execution out of /tmp", got[0].Explanation)
}

func TestCompileExpr_FieldAccess(t *testing.T) {
	rule, err := CompileExpr("ext_port", `Has("port") && Field("port") == "4444"`, "", "")
	require.NoError(t, err)

	tl := []record.Record{
		{Category: record.CategoryNetwork, Subject: "10.0.0.9", Action: "connect",
			Fields: []record.Field{{Key: "port", Value: "4444"}}},
		{Category: record.CategoryNetwork, Subject: "10.0.0.9", Action: "connect",
			Fields: []record.Field{{Key: "port", Value: "443"}}},
	}

	got := rule.Evaluate(tl)
	require.Len(t, got, 1)
	assert.Equal(t, record.SeverityMedium, got[0].Severity, "empty severity defaults to medium")
}

func TestCompileExpr_InvalidExpression(t *testing.T) {
	_, err := CompileExpr("bad", `NoSuchVariable == 1`, "", "")
	assert.Error(t, err)
}

func TestLoadBytes(t *testing.T) {
	data := []byte(`
version: 1
rules:
  - id: tmp_exec
    severity: high
    description: execution out of /tmp
    expr: 'Category == "process" && Target startsWith "/tmp/"'
  - id: night_login
    expr: 'Action == "login" && HasTime'
`)

	rules, err := LoadBytes(data)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "tmp_exec", rules[0].ID())
	assert.Equal(t, "night_login", rules[1].ID())
}

func TestLoadBytes_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"wrong version", "version: 2\nrules:\n  - id: a\n    expr: 'true'"},
		{"no rules", "version: 1\nrules: []"},
		{"missing id", "version: 1\nrules:\n  - expr: 'true'"},
		{"missing expr", "version: 1\nrules:\n  - id: a"},
		{"duplicate id", "version: 1\nrules:\n  - id: a\n    expr: 'true'\n  - id: a\n    expr: 'false'"},
		{"bad severity", "version: 1\nrules:\n  - id: a\n    severity: fatal\n    expr: 'true'"},
		{"bad expression", "version: 1\nrules:\n  - id: a\n    expr: 'Nope('"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestExprRule_Idempotent(t *testing.T) {
	rule, err := CompileExpr("any_unknown", `Category == "unknown"`, "", "")
	require.NoError(t, err)

	tl := []record.Record{
		{Category: record.CategoryUnknown, Raw: "???"},
		{Category: record.CategoryFileOp, Action: "open", Target: "/etc/hosts"},
	}

	first := rule.Evaluate(tl)
	second := rule.Evaluate(tl)
	assert.Equal(t, first, second)
}
