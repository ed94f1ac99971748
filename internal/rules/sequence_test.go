package rules

import (
	"testing"
	"time"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

func fileOp(subject, action, target string, sec int64) record.Record {
	return record.Record{
		Timestamp: time.Unix(sec, 0),
		Category:  record.CategoryFileOp,
		Subject:   subject,
		Action:    action,
		Target:    target,
	}
}

func TestShadowDelete(t *testing.T) {
	tl := []record.Record{
		fileOp("alice", "SHD", "/lib/payload.so", 100),
		fileOp("alice", "WRT", "/var/log/syslog", 160),
		fileOp("alice", "DEL", "/lib/payload.so", 220),
	}

	got := NewShadowDelete(5, 10*time.Minute).Evaluate(tl)

	if len(got) != 1 {
		t.Fatalf("got %d anomalies, want 1: %+v", len(got), got)
	}
	a := got[0]
	if a.Severity != record.SeverityHigh || a.Subject != "alice" {
		t.Errorf("anomaly = %+v", a)
	}
	if len(a.Records) != 2 || a.Records[0] != 0 || a.Records[1] != 2 {
		t.Errorf("records = %v, want [0 2]", a.Records)
	}
}

func TestShadowDelete_OutsideWindow(t *testing.T) {
	tl := []record.Record{
		fileOp("alice", "SHD", "/lib/payload.so", 100),
		fileOp("alice", "DEL", "/lib/payload.so", 100+15*60),
	}
	if got := NewShadowDelete(5, 10*time.Minute).Evaluate(tl); len(got) != 0 {
		t.Errorf("delete 15 minutes later flagged: %+v", got)
	}
}

func TestShadowDelete_DifferentSubjects(t *testing.T) {
	tl := []record.Record{
		fileOp("alice", "SHD", "/lib/payload.so", 100),
		fileOp("bob", "DEL", "/lib/payload.so", 160),
	}
	if got := NewShadowDelete(5, 10*time.Minute).Evaluate(tl); len(got) != 0 {
		t.Errorf("cross-subject sequence flagged: %+v", got)
	}
}

func TestCreateDelete(t *testing.T) {
	tl := []record.Record{
		fileOp("mallory", "CRE", "/tmp/stage.bin", 100),
		fileOp("mallory", "WRT", "/tmp/stage.bin", 110),
		fileOp("mallory", "DEL", "/tmp/stage.bin", 120),
	}

	got := NewCreateDelete(5).Evaluate(tl)

	if len(got) != 1 {
		t.Fatalf("got %d anomalies, want 1: %+v", len(got), got)
	}
	if got[0].Severity != record.SeverityMedium {
		t.Errorf("severity = %v, want medium", got[0].Severity)
	}
}

func TestCreateDelete_DifferentTarget(t *testing.T) {
	tl := []record.Record{
		fileOp("mallory", "CRE", "/tmp/a", 100),
		fileOp("mallory", "DEL", "/tmp/b", 110),
	}
	if got := NewCreateDelete(5).Evaluate(tl); len(got) != 0 {
		t.Errorf("delete of unrelated target flagged: %+v", got)
	}
}

func TestCreateDelete_BeyondLookahead(t *testing.T) {
	tl := []record.Record{
		fileOp("mallory", "CRE", "/tmp/a", 100),
	}
	for i := int64(0); i < 6; i++ {
		tl = append(tl, fileOp("mallory", "WRT", "/var/log/x", 110+i))
	}
	tl = append(tl, fileOp("mallory", "DEL", "/tmp/a", 200))

	if got := NewCreateDelete(5).Evaluate(tl); len(got) != 0 {
		t.Errorf("delete beyond lookahead flagged: %+v", got)
	}
}
