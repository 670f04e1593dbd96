package sink

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// FailureLog is an append-only record of tokens whose lookups failed.
//
// The file is never truncated: repeated runs accumulate, so a later run can
// be pointed at it. Writes are buffered; Close flushes.
type FailureLog struct {
	f *os.File
	w *bufio.Writer
}

// DefaultPath places failed.txt next to the input file.
func DefaultPath(inputPath string) string {
	return filepath.Join(filepath.Dir(inputPath), "failed.txt")
}

// Open opens (creating if needed) the failure log at path in append mode.
func Open(path string) (*FailureLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open failure log: %w", err)
	}
	return &FailureLog{f: f, w: bufio.NewWriter(f)}, nil
}

// Append records one token, one line.
func (l *FailureLog) Append(token string) error {
	if _, err := l.w.WriteString(token + "\n"); err != nil {
		return fmt.Errorf("append failure log: %w", err)
	}
	return nil
}

// Close flushes buffered tokens and closes the file. Callers close exactly
// once, on every exit path that reaches them.
func (l *FailureLog) Close() error {
	flushErr := l.w.Flush()
	closeErr := l.f.Close()
	if flushErr != nil {
		return fmt.Errorf("flush failure log: %w", flushErr)
	}
	return closeErr
}
