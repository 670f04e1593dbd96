package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/opsrecon/hashverify/pkg/mocklookup"
)

func main() {
	addr := defaultString("MOCK_LOOKUPD_ADDR", ":8080")
	keysPath := defaultString("MOCK_LOOKUPD_KEYS", "")
	rps := defaultString("MOCK_LOOKUPD_RATE_LIMIT_RPS", "")

	fs := flag.NewFlagSet("mock-lookupd", flag.ExitOnError)
	fs.StringVar(&addr, "addr", addr, "Listen address")
	fs.StringVar(&keysPath, "keys", keysPath, "File of <checksum>,<key> lines to answer with (also supports env: MOCK_LOOKUPD_KEYS)")
	fs.StringVar(&rps, "rate-limit-rps", rps, "Answer 429 above this request rate; empty disables (env: MOCK_LOOKUPD_RATE_LIMIT_RPS)")
	_ = fs.Parse(os.Args[1:])

	srv := mocklookup.New()
	keyCount := 0
	if keysPath != "" {
		var err error
		keyCount, err = loadKeys(srv, keysPath)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "load keys: %v\n", err)
			os.Exit(1)
		}
	}
	if strings.TrimSpace(rps) != "" {
		limit, err := strconv.ParseFloat(strings.TrimSpace(rps), 64)
		if err != nil || limit <= 0 {
			_, _ = fmt.Fprintf(os.Stderr, "invalid -rate-limit-rps %q\n", rps)
			os.Exit(1)
		}
		srv.SetRateLimit(limit, int(limit)+1)
	}

	_, _ = fmt.Fprintf(os.Stdout, "mock-lookupd listening on %s (keys=%d)\n", addr, keyCount)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// loadKeys reads <checksum>,<key> lines, skipping anything else.
func loadKeys(srv *mocklookup.Server, path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSuffix(line, "\r")
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			continue
		}
		checksum := strings.TrimSpace(parts[0])
		key := strings.TrimSpace(parts[1])
		if checksum == "" || key == "" {
			continue
		}
		srv.SetKey(checksum, key)
		n++
	}
	return n, nil
}

func defaultString(envVar string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(envVar))
	if v == "" {
		return fallback
	}
	return v
}
