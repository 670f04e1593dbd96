package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/opsrecon/hashverify/internal/app"
	"github.com/opsrecon/hashverify/internal/config"
	"github.com/opsrecon/hashverify/internal/logging"
	"github.com/opsrecon/hashverify/internal/version"
)

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "help", "-h", "--help":
		usage(os.Stdout)
		return
	case "version":
		fmt.Println(version.Current)
		return
	case "run":
		os.Exit(runVerify(ctx, os.Args[2:]))
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
}

func runVerify(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var configPath string
	var endpoint string
	var inputPath string
	var failedLog string
	var requestTimeout time.Duration
	var verbosity string

	fs.StringVar(&configPath, "config", strings.TrimSpace(os.Getenv("HASHVERIFY_CONFIG")), "Optional YAML config file (env: HASHVERIFY_CONFIG)")
	fs.StringVar(&endpoint, "endpoint", "", "Lookup service URL (env: HASHVERIFY_ENDPOINT)")
	fs.StringVar(&inputPath, "input", "", "Checksum file path; prompted for when omitted (env: HASHVERIFY_INPUT)")
	fs.StringVar(&failedLog, "failed-log", "", "Failure log path; defaults to failed.txt next to the input (env: HASHVERIFY_FAILED_LOG)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Per-lookup timeout; 0 keeps the transport default (env: HASHVERIFY_REQUEST_TIMEOUT)")
	fs.StringVar(&verbosity, "verbosity", "", "Log level: DEBUG, INFO, WARN, ERROR (env: HASHVERIFY_VERBOSITY)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(cfg, configPath)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "config error: %s\n", err)
			return 2
		}
		cfg = loaded
	}
	cfg, err := config.FromEnv(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %s\n", err)
		return 2
	}

	// Flags win over env and file values.
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if inputPath != "" {
		cfg.Input = inputPath
	}
	if failedLog != "" {
		cfg.FailedLog = failedLog
	}
	if requestTimeout != 0 {
		cfg.RequestTimeout = requestTimeout
	}
	if verbosity != "" {
		cfg.Verbosity = verbosity
	}

	logging.Setup(logging.Options{Verbosity: cfg.Verbosity})

	if strings.TrimSpace(cfg.Input) == "" {
		path, err := promptInputPath()
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "read input path: %s\n", err)
			return 2
		}
		cfg.Input = path
	}

	if _, err := app.Run(ctx, cfg, os.Stdout); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "run failed: %s\n", err)
		return 1
	}
	return 0
}

func promptInputPath() (string, error) {
	fmt.Print("Path to checksum file: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	path := strings.TrimSpace(line)
	if path == "" {
		return "", fmt.Errorf("no path given")
	}
	return path, nil
}

func usage(w *os.File) {
	_, _ = fmt.Fprintf(w, `hashverify: sequential checksum verification against a remote lookup service

Usage:
  hashverify <command> [flags]

Commands:
  run      Verify checksums from a two-column <name>,<checksum> file
  version  Print the version

Examples:
  hashverify run --endpoint https://lookup.example.com/api/submit --input sums.txt

Behavior:
  Each checksum is submitted twice; the run halts on the first checksum
  whose two responses return the same non-empty key. Checksums whose
  lookups fail are appended to failed.txt next to the input file.

Environment:
  HASHVERIFY_CONFIG           Optional YAML config file path
  HASHVERIFY_ENDPOINT         Lookup service URL
  HASHVERIFY_INPUT            Checksum file path
  HASHVERIFY_FAILED_LOG       Failure log path override
  HASHVERIFY_REQUEST_TIMEOUT  Per-lookup timeout (0 = transport default)
  HASHVERIFY_VERBOSITY        DEBUG, INFO, WARN or ERROR

`)
}
