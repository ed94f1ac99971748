package rules

import (
	"fmt"
	"strings"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// DefaultSuspiciousBinaries are the binaries whose execution is flagged by
// default: common exfiltration and staging tools.
var DefaultSuspiciousBinaries = []string{
	"/bin/xz",
	"/bin/nc",
	"/usr/bin/python3",
	"/usr/bin/perl",
}

// executableSuffixes and executableDirs identify targets that look like
// binaries for the binary-delete rule.
var (
	executableSuffixes = []string{".exe", ".bin", ".out", ".so"}
	executableDirs     = []string{"/bin/", "/tmp/", "/sbin/", "/usr/local/bin/"}
)

// SuspiciousExec flags execution of a binary from the watch list.
type SuspiciousExec struct {
	Binaries []string
}

// NewSuspiciousExec creates the rule. A nil list uses
// DefaultSuspiciousBinaries.
func NewSuspiciousExec(binaries []string) *SuspiciousExec {
	if len(binaries) == 0 {
		binaries = DefaultSuspiciousBinaries
	}
	return &SuspiciousExec{Binaries: binaries}
}

func (r *SuspiciousExec) ID() string { return "suspicious_exec" }

func (r *SuspiciousExec) Evaluate(tl []record.Record) []record.Anomaly {
	var anomalies []record.Anomaly
	for i, rec := range tl {
		if !actionHas(rec, "RUN") && !actionHas(rec, "EXE") {
			continue
		}
		for _, bin := range r.Binaries {
			if !strings.Contains(rec.Target, bin) {
				continue
			}
			anomalies = append(anomalies, record.Anomaly{
				RuleID:      r.ID(),
				Severity:    record.SeverityHigh,
				Records:     []int{i},
				Subject:     rec.Subject,
				Explanation: fmt.Sprintf("suspicious binary executed: %s", bin),
			})
			break
		}
	}
	return anomalies
}

// BinaryDelete flags deletion of executable-looking files: binaries
// removed from system or staging directories are a wipe signature.
type BinaryDelete struct{}

// NewBinaryDelete creates the rule.
func NewBinaryDelete() *BinaryDelete { return &BinaryDelete{} }

func (r *BinaryDelete) ID() string { return "binary_delete" }

func (r *BinaryDelete) Evaluate(tl []record.Record) []record.Anomaly {
	var anomalies []record.Anomaly
	for i, rec := range tl {
		if !actionHas(rec, "DEL") || !looksExecutable(rec.Target) {
			continue
		}
		anomalies = append(anomalies, record.Anomaly{
			RuleID:      r.ID(),
			Severity:    record.SeverityHigh,
			Records:     []int{i},
			Subject:     rec.Subject,
			Explanation: fmt.Sprintf("deleted binary or suspicious executable: %s", rec.Target),
		})
	}
	return anomalies
}

func looksExecutable(path string) bool {
	if path == "" {
		return false
	}
	for _, suffix := range executableSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	for _, dir := range executableDirs {
		if strings.Contains(path, dir) {
			return true
		}
	}
	return false
}
