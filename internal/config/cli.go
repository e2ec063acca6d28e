package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// CLIConfig holds hppcalc preferences.
type CLIConfig struct {
	Quote QuoteConfig `toml:"quote"`
}

// QuoteConfig holds defaults for `hppcalc quote`.
type QuoteConfig struct {
	PolicyPath string `toml:"policy_path,omitempty"`
	Currency   string `toml:"currency"`
	Digits     int    `toml:"digits"`
}

// DefaultCLIConfig returns the CLI defaults.
func DefaultCLIConfig() CLIConfig {
	return CLIConfig{
		Quote: QuoteConfig{
			Currency: "IDR",
			Digits:   0,
		},
	}
}

// CLIDir returns the XDG-compliant config directory for hppcalc.
func CLIDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hppcalc")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hppcalc")
}

// CLIPath returns the full path to the CLI config file.
func CLIPath() string {
	return filepath.Join(CLIDir(), "config.toml")
}

// LoadCLI reads the CLI config at path, returning defaults if it doesn't exist.
func LoadCLI(path string) (CLIConfig, error) {
	cfg := DefaultCLIConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading cli config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing cli config: %w", err)
	}
	if cfg.Quote.Digits < 0 {
		return cfg, fmt.Errorf("parsing cli config: quote.digits must not be negative, got %d", cfg.Quote.Digits)
	}

	return cfg, nil
}

// SaveCLI writes the CLI config to path.
func SaveCLI(path string, cfg CLIConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
