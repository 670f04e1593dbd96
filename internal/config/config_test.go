package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opsrecon/hashverify/internal/config"
)

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("layers file over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hashverify.yaml")
		body := "endpoint: https://lookup.example.com/api/submit\ninput: sums.txt\nrequest_timeout: 45s\n"
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg, err := config.LoadFile(config.Default(), path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Endpoint != "https://lookup.example.com/api/submit" {
			t.Fatalf("endpoint: got %q", cfg.Endpoint)
		}
		if cfg.Input != "sums.txt" {
			t.Fatalf("input: got %q", cfg.Input)
		}
		if cfg.RequestTimeout != 45*time.Second {
			t.Fatalf("request timeout: got %s", cfg.RequestTimeout)
		}
		// Untouched keys keep their defaults.
		if cfg.Verbosity != "INFO" {
			t.Fatalf("verbosity: got %q", cfg.Verbosity)
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := config.LoadFile(config.Default(), filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("endpoint: [unclosed"), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := config.LoadFile(config.Default(), path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestFromEnv(t *testing.T) {
	t.Run("env wins over file values", func(t *testing.T) {
		t.Setenv("HASHVERIFY_ENDPOINT", "https://env.example.com")
		t.Setenv("HASHVERIFY_REQUEST_TIMEOUT", "5s")
		t.Setenv("HASHVERIFY_VERBOSITY", "DEBUG")

		base := config.Default()
		base.Endpoint = "https://file.example.com"

		cfg, err := config.FromEnv(base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Endpoint != "https://env.example.com" {
			t.Fatalf("endpoint: got %q", cfg.Endpoint)
		}
		if cfg.RequestTimeout != 5*time.Second {
			t.Fatalf("request timeout: got %s", cfg.RequestTimeout)
		}
		if cfg.Verbosity != "DEBUG" {
			t.Fatalf("verbosity: got %q", cfg.Verbosity)
		}
	})

	t.Run("empty env keeps base values", func(t *testing.T) {
		t.Setenv("HASHVERIFY_ENDPOINT", "")

		base := config.Default()
		base.Endpoint = "https://file.example.com"

		cfg, err := config.FromEnv(base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Endpoint != "https://file.example.com" {
			t.Fatalf("endpoint: got %q", cfg.Endpoint)
		}
	})

	t.Run("invalid duration errors", func(t *testing.T) {
		t.Setenv("HASHVERIFY_REQUEST_TIMEOUT", "not-a-duration")
		if _, err := config.FromEnv(config.Default()); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("requires an endpoint", func(t *testing.T) {
		cfg := config.Default()
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("rejects negative timeout", func(t *testing.T) {
		cfg := config.Default()
		cfg.Endpoint = "https://lookup.example.com"
		cfg.RequestTimeout = -time.Second
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("accepts zero timeout", func(t *testing.T) {
		cfg := config.Default()
		cfg.Endpoint = "https://lookup.example.com"
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
