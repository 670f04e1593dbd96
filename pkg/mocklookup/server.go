package mocklookup

import (
	"encoding/json"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// Call records one submission made to the mock service.
type Call struct {
	Method   string
	Path     string
	Checksum string
}

// Server imitates the checksum lookup service for tests and local runs.
//
// Behavior is scripted per token: a known token answers with its key plus
// some opaque extra fields, an unknown token answers without a key, and a
// token marked as failing answers 500. An optional rate limit answers 429
// once exhausted, which is how callers exercise their transport-failure
// handling end to end.
type Server struct {
	mu      sync.Mutex
	calls   []Call
	keys    map[string]string
	failing map[string]bool
	limiter *rate.Limiter
}

// New constructs an empty mock server.
func New() *Server {
	return &Server{
		keys:    make(map[string]string),
		failing: make(map[string]bool),
	}
}

// SetKey scripts the key returned for token.
func (s *Server) SetKey(token, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[token] = key
}

// FailToken makes every submission of token answer 500.
func (s *Server) FailToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[token] = true
}

// SetRateLimit throttles the whole service to rps with the given burst.
// Requests beyond the budget answer 429 Too Many Requests.
func (s *Server) SetRateLimit(rps float64, burst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// Calls returns a snapshot of all recorded submissions.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many submissions carried token.
func (s *Server) CallCount(token string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Checksum == token {
			n++
		}
	}
	return n
}

// Handler returns an http.Handler serving the lookup API on every path.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleSubmit)
}

type submitRequest struct {
	Checksum string `json:"checksum"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	var in submitRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Checksum == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid input"})
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Checksum: in.Checksum})
	key, known := s.keys[in.Checksum]
	failing := s.failing[in.Checksum]
	limiter := s.limiter
	s.mu.Unlock()

	if limiter != nil && !limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "too many requests"})
		return
	}
	if failing {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "lookup backend unavailable"})
		return
	}

	if !known {
		writeJSON(w, http.StatusOK, map[string]any{
			"found":    false,
			"checksum": in.Checksum,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"found":    true,
		"checksum": in.Checksum,
		"key":      key,
		"source":   "mock",
	})
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
