package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration for a verification run.
//
// Values are layered: defaults, then an optional YAML file, then the
// HASHVERIFY_* environment, then flags. Later layers win per key.
type Config struct {
	// Endpoint is the lookup service URL. Required.
	Endpoint string `yaml:"endpoint"`

	// Input is the two-column checksum file. When empty the CLI prompts.
	Input string `yaml:"input"`

	// FailedLog overrides the default failed.txt sibling of Input.
	FailedLog string `yaml:"failed_log"`

	// RequestTimeout bounds each lookup request. Zero (the default) leaves
	// the transport default in place; a hung endpoint then hangs the run.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Verbosity selects the log level: DEBUG, INFO, WARN or ERROR.
	Verbosity string `yaml:"verbosity"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Verbosity: "INFO",
	}
}

// LoadFile layers the YAML file at path over base.
func LoadFile(base Config, path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv layers HASHVERIFY_* environment variables over base.
func FromEnv(base Config) (Config, error) {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("HASHVERIFY_ENDPOINT")); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("HASHVERIFY_INPUT")); v != "" {
		cfg.Input = v
	}
	if v := strings.TrimSpace(os.Getenv("HASHVERIFY_FAILED_LOG")); v != "" {
		cfg.FailedLog = v
	}
	if v := strings.TrimSpace(os.Getenv("HASHVERIFY_VERBOSITY")); v != "" {
		cfg.Verbosity = v
	}
	timeout, err := envDuration("HASHVERIFY_REQUEST_TIMEOUT", cfg.RequestTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.RequestTimeout = timeout
	return cfg, nil
}

// Validate checks the fields a run cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("endpoint is required (flag -endpoint, env HASHVERIFY_ENDPOINT, or config file)")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	return nil
}

func envDuration(varName string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}
