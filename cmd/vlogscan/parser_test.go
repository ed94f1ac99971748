package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writePatternFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildParser_NoFiles(t *testing.T) {
	p, err := buildParser(nil)
	if err != nil {
		t.Fatalf("buildParser() error = %v", err)
	}
	if p != nil {
		t.Error("buildParser() with no files should return nil parser")
	}
}

func TestBuildParser_Valid(t *testing.T) {
	path := writePatternFile(t, `version: 1
patterns:
  - id: boot
    category: process
    regex: '^BOOT (?P<target>\S+)$'
`)

	p, err := buildParser([]string{path})
	if err != nil {
		t.Fatalf("buildParser() error = %v", err)
	}
	if p == nil {
		t.Fatal("buildParser() returned nil parser")
	}

	res, err := p.ParseLine(context.Background(), "BOOT /sbin/init")
	if err != nil {
		t.Fatalf("ParseLine() error = %v", err)
	}
	if !res.Matched || len(res.Records) != 1 || res.Records[0].Target != "/sbin/init" {
		t.Errorf("ParseLine() = %+v, want one boot record", res)
	}
}

func TestBuildParser_DefaultStaysAuthoritative(t *testing.T) {
	// A custom pattern that would also match key=value lines must not
	// shadow the built-in grammar.
	path := writePatternFile(t, `version: 1
patterns:
  - id: greedy
    regex: '(?P<subject>.+)'
`)

	p, err := buildParser([]string{path})
	if err != nil {
		t.Fatalf("buildParser() error = %v", err)
	}

	res, err := p.ParseLine(context.Background(), "user=alice action=login")
	if err != nil {
		t.Fatalf("ParseLine() error = %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].Subject != "alice" {
		t.Errorf("built-in grammar should win: %+v", res.Records)
	}
}

func TestBuildParser_InvalidFile(t *testing.T) {
	path := writePatternFile(t, "version: 99\n")

	_, err := buildParser([]string{path})
	if err == nil {
		t.Error("buildParser() with invalid file should fail")
	}
}

func TestBuildParser_MissingFile(t *testing.T) {
	_, err := buildParser([]string{filepath.Join(t.TempDir(), "nope.yaml")})
	if err == nil {
		t.Error("buildParser() with missing file should fail")
	}
}
