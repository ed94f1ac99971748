package reader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadLines(t *testing.T) {
	path := writeFile(t, "session.vlog", "first\nsecond\n\nfourth\n")

	var got []record.RawLine
	err := ReadLines(context.Background(), path, func(l record.RawLine) error {
		got = append(got, l)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"first", "second", "", "fourth"}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %+v", len(got), len(want), got)
	}
	for i, text := range want {
		if got[i].Text != text {
			t.Errorf("line %d text = %q, want %q", i, got[i].Text, text)
		}
		if got[i].Line != i+1 {
			t.Errorf("line %d number = %d, want %d", i, got[i].Line, i+1)
		}
		if got[i].Source != "session.vlog" {
			t.Errorf("line %d source = %q", i, got[i].Source)
		}
	}
}

func TestReadLines_NoTrailingNewline(t *testing.T) {
	path := writeFile(t, "session.vlog", "only line without newline")

	var got []string
	err := ReadLines(context.Background(), path, func(l record.RawLine) error {
		got = append(got, l.Text)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "only line without newline" {
		t.Errorf("got %v", got)
	}
}

func TestReadLines_MissingFile(t *testing.T) {
	err := ReadLines(context.Background(), filepath.Join(t.TempDir(), "gone.vlog"), func(record.RawLine) error {
		t.Fatal("callback invoked for missing file")
		return nil
	})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadLines_Directory(t *testing.T) {
	err := ReadLines(context.Background(), t.TempDir(), func(record.RawLine) error { return nil })
	if !errors.Is(err, ErrNotRegularFile) {
		t.Errorf("error = %v, want ErrNotRegularFile", err)
	}
}

func TestReadLines_CallbackError(t *testing.T) {
	path := writeFile(t, "session.vlog", "a\nb\nc\n")

	sentinel := errors.New("stop here")
	count := 0
	err := ReadLines(context.Background(), path, func(record.RawLine) error {
		count++
		if count == 2 {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("error = %v, want sentinel", err)
	}
	if count != 2 {
		t.Errorf("callback ran %d times, want 2", count)
	}
}

func TestReadLines_ContextCancelled(t *testing.T) {
	path := writeFile(t, "session.vlog", "a\nb\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ReadLines(ctx, path, func(record.RawLine) error { return nil })
	// Either the context error or a clean read is acceptable depending on
	// scheduling; what matters is no hang and no panic.
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReadLines_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforceable here")
	}
	path := writeFile(t, "secret.vlog", "hidden\n")
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatal(err)
	}

	err := ReadLines(context.Background(), path, func(record.RawLine) error { return nil })
	if err == nil {
		t.Error("expected permission error")
	}
}
