// Package reader streams raw lines out of .vlog files.
package reader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nxadm/tail"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// ErrNotRegularFile is returned for symlinks, FIFOs, devices, sockets,
// and directories. Tailing a FIFO would block a scan forever.
var ErrNotRegularFile = errors.New("not a regular file")

// ReadLines reads path line by line and calls fn for every line, including
// empty ones. Line numbers are 1-based. Reading stops early if fn returns
// an error or the context is cancelled.
//
// The file is read in batch mode (no following); an incomplete last line
// without a trailing newline is still delivered.
func ReadLines(ctx context.Context, path string, fn func(record.RawLine) error) error {
	if err := checkRegular(path); err != nil {
		return err
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:        false,
		MustExist:     true,
		CompleteLines: false,
		Logger:        tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer t.Cleanup()

	source := filepath.Base(path)
	for {
		select {
		case line, ok := <-t.Lines:
			if !ok {
				return t.Wait()
			}
			if line.Err != nil {
				t.Kill(nil)
				return fmt.Errorf("reading %s: %w", path, line.Err)
			}
			raw := record.RawLine{
				Source: source,
				Line:   line.Num,
				Text:   line.Text,
			}
			if err := fn(raw); err != nil {
				t.Kill(nil)
				return err
			}
		case <-ctx.Done():
			t.Kill(nil)
			return ctx.Err()
		}
	}
}

// checkRegular rejects non-regular files before tailing. Lstat first so
// symlinked files are refused instead of silently followed.
func checkRegular(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}
	return nil
}
