package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/bawdo/wherekit/filter"
	"github.com/bawdo/wherekit/nodes"
	"github.com/bawdo/wherekit/plugins"
	"github.com/bawdo/wherekit/plugins/softdelete"
)

var validFormats = []string{"text", "json", "yaml"}

type renderOptions struct {
	*rootOptions
	table      string
	columns    []string
	group      string
	limit      int
	softDelete string
	delete     bool
	inline     bool
	exec       bool
	format     string
}

// renderResult is the machine-readable form of a rendered statement and,
// with --exec, the rows it returned.
type renderResult struct {
	Engine string     `json:"engine"`
	SQL    string     `json:"sql"`
	Args   []any      `json:"args"`
	Result *resultSet `json:"result,omitempty"`
}

func newRenderCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &renderOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render [FILTER]",
		Short: "Render a filter document as SQL",
		Long: `Render a JSON filter document as a SELECT (or DELETE) statement.

FILTER is a JSON document, "-" to read it from stdin, or @path to read it
from a file. Omitting it renders the statement without a WHERE clause.`,
		Example: `  # Bound parameters for PostgreSQL
  wherekit render --table users '["and", [">=", "age", 18], ["is null", "deleted_at"]]'

  # MySQL, inlined literals
  wherekit render -e mysql --inline --table users '["in", "id", [1, 2, 3]]'

  # Only allow known columns, emit YAML
  wherekit render --table users --columns id,name --format yaml '["=", "name", "x"]'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := ""
			if len(args) == 1 {
				var err error
				doc, err = readFilter(args[0], cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			return runRender(cmd.Context(), opts, doc, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.table, "table", "t", "", "table the filter applies to (required)")
	cmd.Flags().StringSliceVar(&opts.columns, "columns", nil, "column whitelist (default: any identifier)")
	cmd.Flags().StringVar(&opts.group, "group", "", "GROUP BY columns, comma separated")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "LIMIT (0 for none)")
	cmd.Flags().StringVar(&opts.softDelete, "soft-delete", "", "append <column> IS NULL for soft-deleted rows")
	cmd.Flags().Lookup("soft-delete").NoOptDefVal = softdelete.DefaultColumn
	cmd.Flags().BoolVar(&opts.delete, "delete", false, "render a DELETE instead of a SELECT")
	cmd.Flags().BoolVar(&opts.inline, "inline", false, "inline literal values instead of binding them")
	cmd.Flags().BoolVar(&opts.exec, "exec", false, "run the SELECT against database.url and print the rows")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format (text|json|yaml)")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func readFilter(arg string, stdin io.Reader) (string, error) {
	switch {
	case arg == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	case strings.HasPrefix(arg, "@"):
		b, err := os.ReadFile(arg[1:])
		if err != nil {
			return "", fmt.Errorf("reading filter file: %w", err)
		}
		return string(b), nil
	default:
		return arg, nil
	}
}

func runRender(ctx context.Context, opts *renderOptions, doc string, w io.Writer) error {
	if !isValidFormat(opts.format) {
		return fmt.Errorf("invalid format %q: must be one of %v", opts.format, validFormats)
	}
	if opts.limit < 0 {
		return errors.New("--limit must not be negative")
	}
	if opts.delete && (opts.group != "" || opts.limit > 0) {
		return errors.New("--group and --limit do not apply to --delete")
	}
	if opts.exec && (opts.delete || opts.inline) {
		return errors.New("--exec runs a bound SELECT and cannot be combined with --delete or --inline")
	}

	q := &queryState{table: nodes.NewTable(opts.table), limit: opts.limit}
	cols := resolverFor(q.table, opts.columns)
	if _, err := q.addFilter(doc, cols); err != nil {
		return filterError("decoding filter", err)
	}
	if opts.group != "" {
		if err := q.setGroup(opts.group, cols); err != nil {
			return filterError("resolving --group", err)
		}
	}

	var transformers []plugins.Transformer
	if opts.softDelete != "" {
		transformers = append(transformers, softdelete.New(
			softdelete.WithColumn(opts.softDelete),
			softdelete.WithResolver(func(ref plugins.TableRef) filter.Resolver {
				return resolverFor(ref.Relation, opts.columns)
			}),
		))
	}

	res := renderResult{Engine: opts.adapter.Name(), Args: []any{}}
	var err error
	switch {
	case opts.delete && opts.inline:
		res.SQL, err = q.deleteManager(transformers...).ToInlineSQL(opts.adapter)
	case opts.delete:
		res.SQL, res.Args, err = q.deleteManager(transformers...).ToSQL(opts.adapter)
	case opts.inline:
		res.SQL, err = q.selectManager(transformers...).ToInlineSQL(opts.adapter)
	default:
		res.SQL, res.Args, err = q.selectManager(transformers...).ToSQL(opts.adapter)
	}
	if errors.Is(err, filter.ErrUnknownColumn) {
		return filterError("applying --soft-delete", err)
	}
	if err != nil {
		return err
	}
	if res.Args == nil {
		res.Args = []any{}
	}
	if opts.exec {
		if res.Result, err = execRendered(ctx, opts.rootOptions, res); err != nil {
			return err
		}
	}
	return writeResult(w, opts.format, res)
}

// execRendered runs a rendered SELECT against the configured database.
func execRendered(ctx context.Context, opts *rootOptions, res renderResult) (*resultSet, error) {
	if opts.cfg.Database.URL == "" {
		return nil, configError("--exec", errors.New("database.url is not set (use WHEREKIT_DATABASE_URL or DATABASE_URL)"))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.cfg.Database.Timeout)
	defer cancel()

	conn, err := connect(ctx, res.Engine, opts.cfg.Database.URL, opts.cfg.REPL.MaxRows)
	if err != nil {
		return nil, dbConnectError("connecting to database", err)
	}
	defer func() { _ = conn.close() }()
	return conn.execQuery(ctx, res.SQL, res.Args)
}

func writeResult(w io.Writer, format string, res renderResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		out, err := yaml.Marshal(res)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		if _, err := fmt.Fprintln(w, res.SQL); err != nil {
			return err
		}
		if len(res.Args) > 0 {
			if _, err := fmt.Fprintf(w, "-- args: %s\n", formatArgs(res.Args)); err != nil {
				return err
			}
		}
		if res.Result != nil {
			_, err := fmt.Fprint(w, res.Result)
			return err
		}
		return nil
	}
}

// formatArgs renders bound values one per position, quoting strings.
func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case string:
			parts[i] = fmt.Sprintf("%q", v)
		case nil:
			parts[i] = "NULL"
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func isValidFormat(format string) bool {
	for _, f := range validFormats {
		if f == format {
			return true
		}
	}
	return false
}
