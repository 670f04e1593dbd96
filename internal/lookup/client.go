package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Result is the decoded body of one successful lookup.
type Result struct {
	// Key is the service's reverse-lookup value, or "" when the response
	// carries no usable key. A present but non-string key counts as absent.
	Key string

	// Fields is the full decoded response object, preserved for display.
	Fields map[string]any
}

// Client submits checksums to the lookup service, one request per call.
//
// There is no retry and, by default, no client-side timeout: the transport
// default applies unless the operator sets one, so a hung endpoint hangs
// the run. The timeout knob exists to make that risk an operator decision.
type Client struct {
	endpoint *url.URL
	http     *http.Client
}

type submitRequest struct {
	Checksum string `json:"checksum"`
}

// NewClient constructs a client for the lookup endpoint URL.
//
// timeout <= 0 leaves the transport default in place.
func NewClient(endpoint string, timeout time.Duration) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("lookup endpoint is required")
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse lookup endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("lookup endpoint must include a host (got %q)", endpoint)
	}

	hc := &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	if timeout > 0 {
		hc.Timeout = timeout
	}
	return &Client{endpoint: u, http: hc}, nil
}

// Submit performs one lookup for token. Any non-2xx status, transport
// error, or undecodable body is a submission failure; the caller decides
// what a failure means, this client just reports it.
func (c *Client) Submit(ctx context.Context, token string) (*Result, error) {
	body, err := json.Marshal(submitRequest{Checksum: token})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, newHTTPError("submit", resp, b)
	}

	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("parse lookup response: %w", err)
	}

	res := &Result{Fields: fields}
	if key, ok := fields["key"].(string); ok {
		res.Key = key
	}
	return res, nil
}
