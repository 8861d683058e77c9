package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/bawdo/wherekit/internal/config"
)

// configView is the displayed form of config.Config: durations as strings
// and the database password masked.
type configView struct {
	Engine   string `json:"engine"`
	Database struct {
		URL     string `json:"url"`
		Timeout string `json:"timeout"`
	} `json:"database"`
	REPL struct {
		HistoryFile string `json:"history_file"`
		MaxRows     int    `json:"max_rows"`
	} `json:"repl"`
}

func viewOf(cfg *config.Config) configView {
	var v configView
	v.Engine = cfg.Engine
	v.Database.URL = sanitizeDSN(cfg.Database.URL)
	v.Database.Timeout = cfg.Database.Timeout.String()
	v.REPL.HistoryFile = cfg.REPL.HistoryFile
	v.REPL.MaxRows = cfg.REPL.MaxRows
	return v
}

func newConfigCommand(rootOpts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	var showSource bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  `Show the effective configuration after merging defaults, config file, environment variables and flags.`,
		Example: `  # Show effective configuration
  wherekit config show

  # Show configuration with source file path
  wherekit config show --source`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.OutOrStdout(), rootOpts, showSource)
		},
	}
	showCmd.Flags().BoolVar(&showSource, "source", false, "show config file source")
	cmd.AddCommand(showCmd)

	return cmd
}

func showConfig(w io.Writer, opts *rootOptions, showSource bool) error {
	if showSource {
		source := resolveString(opts.configPath, "(none, using defaults)")
		if _, err := fmt.Fprintf(w, "Config file: %s\n\n", source); err != nil {
			return err
		}
	}
	out, err := yaml.Marshal(viewOf(opts.cfg))
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
