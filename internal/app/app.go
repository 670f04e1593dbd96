package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opsrecon/hashverify/internal/config"
	"github.com/opsrecon/hashverify/internal/lookup"
	"github.com/opsrecon/hashverify/internal/sink"
	"github.com/opsrecon/hashverify/internal/source"
	"github.com/opsrecon/hashverify/internal/verify"
)

// Run executes one verification run: load the checksum file, open the
// failure log, then drive the loop and print the human-readable report to
// out. The outcome is returned so callers (and tests) can inspect it.
func Run(ctx context.Context, cfg config.Config, out io.Writer) (outcome verify.Outcome, err error) {
	if err := cfg.Validate(); err != nil {
		return verify.Outcome{}, err
	}

	runID := uuid.NewString()
	log := slog.With("run", runID)
	runStart := time.Now()

	loadStart := time.Now()
	tokens, err := source.Load(cfg.Input)
	if err != nil {
		return verify.Outcome{}, err
	}
	log.Info("loaded checksums",
		"input", cfg.Input,
		"count", len(tokens),
		"duration", time.Since(loadStart).Round(time.Millisecond))

	failedPath := strings.TrimSpace(cfg.FailedLog)
	if failedPath == "" {
		failedPath = sink.DefaultPath(cfg.Input)
	}
	failures, err := sink.Open(failedPath)
	if err != nil {
		return verify.Outcome{}, err
	}
	defer func() {
		if cerr := failures.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	client, err := lookup.NewClient(cfg.Endpoint, cfg.RequestTimeout)
	if err != nil {
		return verify.Outcome{}, err
	}

	log.Info("verification start",
		"endpoint", cfg.Endpoint,
		"checksums", len(tokens),
		"failedLog", failedPath,
		"requestTimeout", cfg.RequestTimeout)

	progress := func(processed, total int) {
		_, _ = fmt.Fprintf(out, "\rchecked %d/%d", processed, total)
	}
	outcome, err = verify.Run(ctx, tokens, client, failures, progress)
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return verify.Outcome{}, err
	}

	if outcome.Matched {
		log.Info("verification complete",
			"result", "match",
			"checksum", outcome.Token,
			"duration", time.Since(runStart).Round(time.Millisecond))
		_, _ = fmt.Fprintf(out, "match found: checksum=%s key=%s\n", outcome.Token, outcome.Result.Key)
		_, _ = fmt.Fprintf(out, "response: %s\n", renderFields(outcome.Result.Fields))
		return outcome, nil
	}

	log.Info("verification complete",
		"result", "exhausted",
		"checksums", len(tokens),
		"duration", time.Since(runStart).Round(time.Millisecond))
	_, _ = fmt.Fprintf(out, "no match: all %d checksums verified without a matching key\n", len(tokens))
	return outcome, nil
}

func renderFields(fields map[string]any) string {
	b, err := json.Marshal(fields)
	if err != nil {
		// Fields came from json.Unmarshal, so this is unreachable in
		// practice; keep the report printable anyway.
		return fmt.Sprintf("%v", fields)
	}
	return string(b)
}
