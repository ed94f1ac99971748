package vlogfinder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDir_Explicit(t *testing.T) {
	dir := t.TempDir()
	got, err := ResolveDir(dir)
	if err != nil {
		t.Fatalf("ResolveDir(%q) error: %v", dir, err)
	}
	if got == "" {
		t.Error("ResolveDir returned empty path")
	}
}

func TestResolveDir_Missing(t *testing.T) {
	_, err := ResolveDir(filepath.Join(t.TempDir(), "does-not-exist"))
	if !errors.Is(err, ErrLogDirNotFound) {
		t.Errorf("error = %v, want ErrLogDirNotFound", err)
	}
}

func TestResolveDir_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain.vlog")
	if err := os.WriteFile(file, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ResolveDir(file)
	if !errors.Is(err, ErrNotDirectory) {
		t.Errorf("error = %v, want ErrNotDirectory", err)
	}
}

func TestResolveDir_EnvFallback(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvLogDir, dir)

	if _, err := ResolveDir(""); err != nil {
		t.Errorf("ResolveDir with env fallback: %v", err)
	}
}

func TestResolveDir_NothingSet(t *testing.T) {
	t.Setenv(EnvLogDir, "")
	if _, err := ResolveDir(""); !errors.Is(err, ErrLogDirNotFound) {
		t.Errorf("error = %v, want ErrLogDirNotFound", err)
	}
}

func TestListLogFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.vlog", "a.vlog", "c.txt", "z.vlog"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ListLogFiles(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a.vlog", "b.vlog", "z.vlog"}
	if len(files) != len(want) {
		t.Fatalf("got %d files, want %d: %v", len(files), len(want), files)
	}
	for i, w := range want {
		if filepath.Base(files[i]) != w {
			t.Errorf("files[%d] = %q, want %q", i, filepath.Base(files[i]), w)
		}
	}
}

func TestListLogFiles_Empty(t *testing.T) {
	files, err := ListLogFiles(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("got %v, want no files", files)
	}
}
