package rules

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

const (
	// MaxRuleFileSize is the maximum allowed size for a rule file (1MB).
	MaxRuleFileSize = 1 * 1024 * 1024

	// MaxRuleCount caps the number of rules in one file.
	MaxRuleCount = 200

	// MaxExprLength caps a single rule expression.
	MaxExprLength = 1024

	// SupportedRuleFileVersion is the only accepted rule file version.
	SupportedRuleFileVersion = 1
)

// RuleFile is the YAML structure for user-defined rule files.
//
// Example:
//
//	version: 1
//	rules:
//	  - id: tmp_exec
//	    severity: high
//	    description: execution out of /tmp
//	    expr: 'Category == "process" && Target startsWith "/tmp/"'
type RuleFile struct {
	Version int        `yaml:"version"`
	Rules   []RuleSpec `yaml:"rules"`
}

// RuleSpec is one user-defined rule.
type RuleSpec struct {
	ID          string `yaml:"id"`
	Severity    string `yaml:"severity"`
	Description string `yaml:"description"`
	Expr        string `yaml:"expr"`
}

// LoadFile reads, validates, and compiles a YAML rule file.
func LoadFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat rule file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.New("rule file must be a regular file")
	}
	if info.Size() > MaxRuleFileSize {
		return nil, fmt.Errorf("rule file too large: %d bytes (max %d)", info.Size(), MaxRuleFileSize)
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxRuleFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	if len(data) > MaxRuleFileSize {
		return nil, fmt.Errorf("rule file too large (max %d bytes)", MaxRuleFileSize)
	}

	return LoadBytes(data)
}

// LoadBytes parses and compiles rule definitions from YAML bytes.
func LoadBytes(data []byte) ([]Rule, error) {
	if len(data) == 0 {
		return nil, errors.New("rule file is empty")
	}

	var rf RuleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := rf.validate(); err != nil {
		return nil, err
	}

	rules := make([]Rule, 0, len(rf.Rules))
	for _, spec := range rf.Rules {
		severity, err := parseSeverity(spec.Severity)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", spec.ID, err)
		}
		r, err := CompileExpr(spec.ID, spec.Expr, spec.Description, severity)
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid expression: %w", spec.ID, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func (rf *RuleFile) validate() error {
	if rf.Version != SupportedRuleFileVersion {
		return fmt.Errorf("unsupported rule file version %d (only version %d is supported)",
			rf.Version, SupportedRuleFileVersion)
	}
	if len(rf.Rules) == 0 {
		return errors.New("at least one rule is required")
	}
	if len(rf.Rules) > MaxRuleCount {
		return fmt.Errorf("too many rules (%d), maximum allowed is %d", len(rf.Rules), MaxRuleCount)
	}

	seen := make(map[string]bool, len(rf.Rules))
	for i, spec := range rf.Rules {
		if spec.ID == "" {
			return fmt.Errorf("rule[%d]: id is required", i)
		}
		if spec.Expr == "" {
			return fmt.Errorf("rule %q: expr is required", spec.ID)
		}
		if len(spec.Expr) > MaxExprLength {
			return fmt.Errorf("rule %q: expression too long: %d bytes (max %d)",
				spec.ID, len(spec.Expr), MaxExprLength)
		}
		if seen[spec.ID] {
			return fmt.Errorf("rule %q: duplicate id", spec.ID)
		}
		seen[spec.ID] = true
	}
	return nil
}

// parseSeverity maps a rule file severity string to a Severity.
// Empty defaults to medium.
func parseSeverity(s string) (record.Severity, error) {
	switch s {
	case "":
		return record.SeverityMedium, nil
	case string(record.SeverityLow), string(record.SeverityMedium), string(record.SeverityHigh):
		return record.Severity(s), nil
	default:
		return "", fmt.Errorf("unknown severity %q (use low, medium, or high)", s)
	}
}
