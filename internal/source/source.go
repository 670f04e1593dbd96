package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load reads the checksum file at path and returns its tokens in file order.
//
// A missing file is reported before any parsing happens so the caller can
// surface it as a precondition failure rather than a mid-run error.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("checksum file not found: %s", path)
		}
		return nil, fmt.Errorf("open checksum file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	tokens, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read checksum file %s: %w", path, err)
	}
	return tokens, nil
}

// Parse extracts tokens from two-column `<name>,<checksum>` records.
//
// A line contributes a token only when splitting on "," yields exactly two
// parts that are non-empty after trimming; everything else is skipped
// silently. Duplicates and order are preserved, and no checksum format
// validation happens here.
func Parse(r io.Reader) ([]string, error) {
	var tokens []string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		// Scanner strips the LF; CRLF input leaves a trailing CR.
		line := strings.TrimSuffix(sc.Text(), "\r")
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		token := strings.TrimSpace(parts[1])
		if name == "" || token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}
