// Package config loads wherekit CLI configuration with the precedence
// flags > environment > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bawdo/wherekit/adapters"
	"github.com/spf13/viper"
)

const maxWalkDepth = 25

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the effective CLI configuration.
type Config struct {
	Engine   string         `mapstructure:"engine"`
	Database DatabaseConfig `mapstructure:"database"`
	REPL     REPLConfig     `mapstructure:"repl"`
}

// DatabaseConfig holds connection settings.
type DatabaseConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// REPLConfig holds interactive shell settings.
type REPLConfig struct {
	HistoryFile string `mapstructure:"history_file"`
	MaxRows     int    `mapstructure:"max_rows"`
}

// Load discovers and loads configuration. An explicit path must exist;
// otherwise wherekit.yaml (or .yml) is searched for from the working
// directory up to the repository root.
//
// Returns the loaded config and the path of the file used (empty if none).
func Load(explicitPath string) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WHEREKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// DATABASE_URL is honoured for compatibility with common tooling.
	if err := v.BindEnv("database.url", "WHEREKIT_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, "", fmt.Errorf("binding env: %w", err)
	}

	path, err := findConfigFile(explicitPath)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, path, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, path, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Engine = strings.ToLower(strings.TrimSpace(cfg.Engine))
	cfg.REPL.HistoryFile = expandHome(cfg.REPL.HistoryFile)
	return &cfg, path, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.timeout", 30*time.Second)
	v.SetDefault("repl.history_file", "~/.wherekit_history")
	v.SetDefault("repl.max_rows", 1000)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := adapters.ByName(c.Engine); err != nil {
		return fmt.Errorf("%w: engine: %w", ErrInvalid, err)
	}
	if c.Database.Timeout <= 0 {
		return fmt.Errorf("%w: database.timeout must be positive, got %s", ErrInvalid, c.Database.Timeout)
	}
	if c.REPL.MaxRows < 1 {
		return fmt.Errorf("%w: repl.max_rows must be at least 1, got %d", ErrInvalid, c.REPL.MaxRows)
	}
	return nil
}

// Adapter returns the adapter for the configured engine.
func (c *Config) Adapter() (adapters.Adapter, error) {
	return adapters.ByName(c.Engine)
}

// findConfigFile returns explicitPath if it exists. Otherwise it walks up
// from the working directory looking for wherekit.yaml or wherekit.yml,
// stopping at a .git entry or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"wherekit.yaml", "wherekit.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
