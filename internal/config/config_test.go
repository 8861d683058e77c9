package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bawdo/wherekit/adapters"
	"github.com/bawdo/wherekit/internal/testutil"
)

// chdir switches to dir for the rest of the test. Tests using it must not
// run in parallel.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

// isolate runs the test in an empty repository root with no wherekit
// environment set.
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.AssertNoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	chdir(t, root)
	for _, k := range []string{"WHEREKIT_ENGINE", "WHEREKIT_DATABASE_URL", "DATABASE_URL", "WHEREKIT_DATABASE_TIMEOUT", "WHEREKIT_REPL_MAX_ROWS"} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
	return root
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, path, err := Load("")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, path, "")
	testutil.AssertEqual(t, cfg.Engine, "postgres")
	testutil.AssertEqual(t, cfg.Database.URL, "")
	testutil.AssertEqual(t, cfg.Database.Timeout, 30*time.Second)
	testutil.AssertEqual(t, cfg.REPL.MaxRows, 1000)
	if !strings.HasSuffix(cfg.REPL.HistoryFile, ".wherekit_history") || strings.HasPrefix(cfg.REPL.HistoryFile, "~") {
		t.Errorf("expected expanded history path, got %q", cfg.REPL.HistoryFile)
	}
	testutil.AssertNoError(t, cfg.Validate())
}

func TestLoadFromDiscoveredFile(t *testing.T) {
	root := isolate(t)
	yaml := "engine: MySQL\ndatabase:\n  url: root@tcp(localhost:3306)/app\n  timeout: 5s\nrepl:\n  max_rows: 50\n"
	testutil.AssertNoError(t, os.WriteFile(filepath.Join(root, "wherekit.yaml"), []byte(yaml), 0o644))
	nested := filepath.Join(root, "a", "b")
	testutil.AssertNoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	cfg, path, err := Load("")
	testutil.AssertNoError(t, err)
	if filepath.Base(path) != "wherekit.yaml" {
		t.Errorf("expected discovered wherekit.yaml, got %q", path)
	}
	testutil.AssertEqual(t, cfg.Engine, "mysql")
	testutil.AssertEqual(t, cfg.Database.URL, "root@tcp(localhost:3306)/app")
	testutil.AssertEqual(t, cfg.Database.Timeout, 5*time.Second)
	testutil.AssertEqual(t, cfg.REPL.MaxRows, 50)

	a, err := cfg.Adapter()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual[adapters.Adapter](t, a, adapters.MySQL{})
}

func TestLoadExplicitPath(t *testing.T) {
	root := isolate(t)
	path := filepath.Join(root, "custom.yml")
	testutil.AssertNoError(t, os.WriteFile(path, []byte("engine: sqlite\n"), 0o644))

	cfg, got, err := Load(path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, path)
	testutil.AssertEqual(t, cfg.Engine, "sqlite")
}

func TestLoadExplicitPathNotFound(t *testing.T) {
	isolate(t)
	_, _, err := Load("/nonexistent/wherekit.yaml")
	testutil.AssertError(t, err)
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	root := isolate(t)
	testutil.AssertNoError(t, os.WriteFile(filepath.Join(root, "wherekit.yaml"), []byte("engine: mysql\n"), 0o644))
	t.Setenv("WHEREKIT_ENGINE", "sqlite")
	t.Setenv("WHEREKIT_REPL_MAX_ROWS", "7")

	cfg, _, err := Load("")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.Engine, "sqlite")
	testutil.AssertEqual(t, cfg.REPL.MaxRows, 7)
}

func TestLegacyDatabaseURL(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_URL", "postgres://u@localhost/db")

	cfg, _, err := Load("")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.Database.URL, "postgres://u@localhost/db")

	t.Setenv("WHEREKIT_DATABASE_URL", "postgres://preferred@localhost/db")
	cfg, _, err = Load("")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.Database.URL, "postgres://preferred@localhost/db")
}

func TestValidate(t *testing.T) {
	t.Parallel()
	valid := Config{Engine: "postgres", Database: DatabaseConfig{Timeout: time.Second}, REPL: REPLConfig{MaxRows: 1}}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown engine", func(c *Config) { c.Engine = "oracle" }},
		{"zero timeout", func(c *Config) { c.Database.Timeout = 0 }},
		{"zero max rows", func(c *Config) { c.REPL.MaxRows = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
	testutil.AssertNoError(t, valid.Validate())
}

func TestExpandHome(t *testing.T) {
	t.Parallel()
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	testutil.AssertEqual(t, expandHome("~/x"), filepath.Join(home, "x"))
	testutil.AssertEqual(t, expandHome("/abs/x"), "/abs/x")
	testutil.AssertEqual(t, expandHome(""), "")
}
