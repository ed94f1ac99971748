package rules

import (
	"testing"
	"time"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

func TestSuspiciousExec(t *testing.T) {
	tl := []record.Record{
		{Timestamp: time.Unix(100, 0), Category: record.CategoryProcess, Subject: "bob", Action: "RUN", Target: "/usr/bin/python3"},
		{Timestamp: time.Unix(110, 0), Category: record.CategoryProcess, Subject: "bob", Action: "RUN", Target: "/usr/bin/vim"},
	}

	got := NewSuspiciousExec(nil).Evaluate(tl)

	if len(got) != 1 {
		t.Fatalf("got %d anomalies, want 1: %+v", len(got), got)
	}
	if got[0].Records[0] != 0 || got[0].Severity != record.SeverityHigh {
		t.Errorf("anomaly = %+v", got[0])
	}
}

func TestSuspiciousExec_CustomList(t *testing.T) {
	tl := []record.Record{
		{Category: record.CategoryProcess, Subject: "bob", Action: "exec", Target: "/opt/tools/cryptominer"},
	}

	rule := NewSuspiciousExec([]string{"/opt/tools/cryptominer"})
	if got := rule.Evaluate(tl); len(got) != 1 {
		t.Errorf("custom binary not flagged: %+v", got)
	}
}

func TestBinaryDelete(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"exe suffix", "/home/u/tool.exe", 1},
		{"so suffix", "/lib/evil.so", 1},
		{"tmp dir", "/tmp/dropper", 1},
		{"sbin dir", "/sbin/ifconfig", 1},
		{"plain document", "/home/u/notes.txt", 0},
		{"empty target", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := []record.Record{
				{Category: record.CategoryFileOp, Subject: "u", Action: "DEL", Target: tt.target},
			}
			if got := NewBinaryDelete().Evaluate(tl); len(got) != tt.want {
				t.Errorf("got %d anomalies, want %d", len(got), tt.want)
			}
		})
	}
}

func TestBinaryDelete_RequiresDeleteAction(t *testing.T) {
	tl := []record.Record{
		{Category: record.CategoryFileOp, Subject: "u", Action: "WRT", Target: "/tmp/dropper"},
	}
	if got := NewBinaryDelete().Evaluate(tl); len(got) != 0 {
		t.Errorf("non-delete action flagged: %+v", got)
	}
}
