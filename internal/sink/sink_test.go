package sink_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opsrecon/hashverify/internal/sink"
)

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	got := sink.DefaultPath(filepath.Join("some", "dir", "sums.txt"))
	want := filepath.Join("some", "dir", "failed.txt")
	if got != want {
		t.Fatalf("DefaultPath: want %q, got %q", want, got)
	}
}

func TestFailureLogAppendsAcrossOpens(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "failed.txt")

	first, err := sink.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Append("AAA"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// A second run must not truncate the first run's entries.
	second, err := sink.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := second.Append("BBB"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := second.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "AAA\nBBB\n" {
		t.Fatalf("unexpected contents: %q", string(b))
	}
}

func TestFailureLogFlushOnlyOnClose(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "failed.txt")
	l, err := sink.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := l.Append("AAA"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "AAA\n" {
		t.Fatalf("unexpected contents: %q", string(b))
	}
}
