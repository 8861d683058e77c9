package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bawdo/wherekit/adapters"
	"github.com/bawdo/wherekit/internal/config"
)

// rootOptions holds global flags and the state resolved from them in
// PersistentPreRunE.
type rootOptions struct {
	cfgFile string
	engine  string
	verbose int

	cfg        *config.Config
	configPath string
	adapter    adapters.Adapter
}

// Command group IDs
const (
	groupQuery   = "query"
	groupUtility = "utility"
)

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "wherekit",
		Short: "Typed SQL predicate rendering",
		Long: `wherekit - typed SQL predicate rendering

wherekit turns filter documents into WHERE clauses with bound parameters for
PostgreSQL, MySQL and SQLite, and can run them against a live database.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return opts.load()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: auto-discover wherekit.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.engine, "engine", "e", "", "SQL dialect: postgres, mysql or sqlite (overrides config)")
	cmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "increase verbosity (can be repeated)")

	cmd.AddGroup(
		&cobra.Group{ID: groupQuery, Title: "Query:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	renderCmd := newRenderCommand(opts)
	renderCmd.GroupID = groupQuery
	replCmd := newREPLCommand(opts)
	replCmd.GroupID = groupQuery
	configCmd := newConfigCommand(opts)
	configCmd.GroupID = groupUtility

	cmd.AddCommand(renderCmd, replCmd, configCmd)
	return cmd
}

// load resolves configuration, applies flag overrides and installs the
// diagnostic logger.
func (o *rootOptions) load() error {
	setupLogging(o.verbose)

	cfg, path, err := config.Load(o.cfgFile)
	if err != nil {
		return configError("loading configuration", err)
	}
	if o.engine != "" {
		cfg.Engine = o.engine
	}
	if err := cfg.Validate(); err != nil {
		return configError("validating configuration", err)
	}
	a, err := cfg.Adapter()
	if err != nil {
		return configError("resolving engine", err)
	}
	o.cfg, o.configPath, o.adapter = cfg, path, a
	slog.Debug("configuration loaded", "path", path, "engine", a.Name())
	return nil
}

// setupLogging routes diagnostics to stderr. Warnings are always shown;
// -v enables info and -vv debug.
func setupLogging(verbose int) {
	level := slog.LevelWarn
	switch {
	case verbose >= 2:
		level = slog.LevelDebug
	case verbose == 1:
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// resolveString returns the first non-empty value.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
