package lookup

import (
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is a sanitized summary of a non-2xx lookup response.
//
// Bodies can be arbitrarily large or non-textual; only a truncated snippet
// is kept for diagnostics.
type HTTPError struct {
	Op         string
	StatusCode int
	Status     string

	// Snippet is a truncated, single-line hint from the response body.
	Snippet string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "lookup http error"
	}
	parts := []string{
		fmt.Sprintf("lookup error: op=%s status=%s", strings.TrimSpace(e.Op), strings.TrimSpace(e.Status)),
	}
	if strings.TrimSpace(e.Snippet) != "" {
		parts = append(parts, "body="+strings.TrimSpace(e.Snippet))
	}
	return strings.Join(parts, " ")
}

func newHTTPError(op string, resp *http.Response, body []byte) error {
	h := &HTTPError{Op: op}
	if resp != nil {
		h.StatusCode = resp.StatusCode
		h.Status = resp.Status
	}
	h.Snippet = truncateSnippet(body)
	return h
}

func truncateSnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	const max = 256
	b := body
	if len(b) > max {
		b = b[:max]
	}
	s := string(b)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(body) > max {
		return s + "..."
	}
	return s
}
