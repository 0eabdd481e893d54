// Package config holds runtime configuration for embedders of the royalty
// engine: where state lives, how the host ledger is reached, and the
// credentials for the metadata pinning service. Values come from defaults,
// an optional key=value file, and environment variable overrides, in that
// order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings.
type Config struct {
	// DataDir is the root directory for persistent state.
	DataDir string `env:"ROYALTY_DATA_DIR"`

	// StateBackend selects the engine state store: "mem" or "bolt".
	StateBackend string `env:"ROYALTY_STATE_BACKEND"`

	// LedgerURL is the host ledger endpoint.
	LedgerURL string `env:"ROYALTY_LEDGER_URL"`

	// LedgerToken authenticates against the host ledger endpoint.
	LedgerToken string `env:"ROYALTY_LEDGER_TOKEN"`

	// CustodySeed seeds the engine's custody identity derivation.
	CustodySeed string `env:"ROYALTY_CUSTODY_SEED"`

	// PinURL is the base URL of the metadata pinning service.
	PinURL string `env:"ROYALTY_PIN_URL"`

	// PinJWT is the bearer token for the pinning service.
	PinJWT string `env:"ROYALTY_PIN_JWT"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"ROYALTY_LOG_LEVEL"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:      filepath.Join(home, ".royalty"),
		StateBackend: "bolt",
		LedgerURL:    "http://localhost:4001",
		PinURL:       "https://api.pinata.cloud",
		LogLevel:     "info",
	}
}

// LoadConfig reads a key=value configuration file on top of the defaults.
// Blank lines and lines starting with '#' are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, i+1, line)
		}
		if err := cfg.set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, i+1, line)
		}
	}
	return cfg, nil
}

// SaveConfig writes the configuration as a key=value file.
func SaveConfig(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	fields := cfg.fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, *fields[k])
	}
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// FromEnv applies environment variable overrides to the configuration.
func FromEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse environment: %w", err)
	}
	return nil
}

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"datadir":       &c.DataDir,
		"state_backend": &c.StateBackend,
		"ledger_url":    &c.LedgerURL,
		"ledger_token":  &c.LedgerToken,
		"custody_seed":  &c.CustodySeed,
		"pin_url":       &c.PinURL,
		"pin_jwt":       &c.PinJWT,
		"log_level":     &c.LogLevel,
	}
}

func (c *Config) set(key, value string) error {
	field, ok := c.fields()[strings.ToLower(key)]
	if !ok {
		return ErrInvalidConfigLine
	}
	*field = value
	return nil
}
