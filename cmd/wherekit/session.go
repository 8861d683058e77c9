package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ergochat/readline"

	"github.com/bawdo/wherekit/adapters"
	"github.com/bawdo/wherekit/filter"
	"github.com/bawdo/wherekit/internal/config"
	"github.com/bawdo/wherekit/nodes"
)

var (
	errNoQuery      = errors.New("no query defined (use 'from <table>' first)")
	errNotConnected = errors.New("not connected (use 'connect <dsn>' first)")
)

// Session holds the REPL state: the active adapter, the query being built,
// enabled plugins and the optional database connection.
type Session struct {
	adapter     adapters.Adapter
	query       *queryState    // nil until 'from'
	columns     []string       // explicit whitelist; empty defers to schema, then any identifier
	inline      bool           // render literals instead of placeholders
	plugins     enabledPlugins
	commands    []commandEntry // command registry (sorted by prefix length desc)
	conn        *dbConn        // nil when disconnected
	lastDSN     string         // remembers the previous DSN for reconnect
	timeout     time.Duration
	maxRows     int
	rl          *readline.Instance
	out         io.Writer // destination for REPL output (default os.Stdout)
}

// NewSession creates a session rendering for adapter a. rl may be nil, in
// which case interactive prompts take their defaults.
func NewSession(a adapters.Adapter, cfg *config.Config, rl *readline.Instance) *Session {
	s := &Session{
		adapter: a,
		timeout: cfg.Database.Timeout,
		maxRows: cfg.REPL.MaxRows,
		rl:      rl,
		out:     os.Stdout,
	}
	s.initCommands()
	return s
}

// pluginNames returns the names of all known plugins (for tab completion).
func (s *Session) pluginNames() []string {
	names := make([]string, len(pluginKinds))
	for i, k := range pluginKinds {
		names[i] = k.name
	}
	return names
}

// Execute runs one REPL line.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(line[len(cmd.prefix):])
			}
		} else if lower == cmd.prefix {
			return cmd.handler("")
		}
	}

	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

func (s *Session) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// resolver picks the column whitelist for filters: explicit columns, then
// the connected table's schema, then any plain identifier.
func (s *Session) resolver() filter.Resolver {
	names := s.columns
	if len(names) == 0 && s.conn != nil {
		ctx, cancel := s.ctx()
		defer cancel()
		names = s.conn.schemaColumns(ctx, s.query.table.Name)
	}
	return resolverFor(s.query.table, names)
}

// --- Command handlers ---

func (s *Session) cmdEngine(args string) error {
	a, err := adapters.ByName(strings.TrimSpace(args))
	if err != nil {
		return fmt.Errorf("%w (choose: %s)", err, strings.Join(adapters.Names(), ", "))
	}
	s.adapter = a
	if s.conn != nil && s.conn.engine != a.Name() {
		slog.Warn("engine differs from connected database", "engine", a.Name(), "connected", s.conn.engine)
	}
	_, _ = fmt.Fprintf(s.out, "  Engine set to %s\n", a.Name())
	return nil
}

func (s *Session) cmdFrom(args string) error {
	name := strings.TrimSpace(args)
	if name == "" || strings.ContainsAny(name, " \t") {
		return errors.New("usage: from <table>")
	}
	s.query = newQueryState(name)
	_, _ = fmt.Fprintf(s.out, "  Query: SELECT * FROM %s\n", name)
	return nil
}

func (s *Session) cmdColumns(args string) error {
	arg := strings.TrimSpace(args)
	switch arg {
	case "":
		if len(s.columns) == 0 {
			_, _ = fmt.Fprintln(s.out, "  Columns: (any)")
		} else {
			_, _ = fmt.Fprintf(s.out, "  Columns: %s\n", strings.Join(s.columns, ", "))
		}
		return nil
	case "*":
		s.columns = nil
		_, _ = fmt.Fprintln(s.out, "  Column whitelist cleared")
		return nil
	}
	s.columns = splitNames(arg)
	_, _ = fmt.Fprintf(s.out, "  Columns: %s\n", strings.Join(s.columns, ", "))
	return nil
}

func (s *Session) cmdWhere(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	pred, err := s.query.addFilter(strings.TrimSpace(args), s.resolver())
	if err != nil {
		return fmt.Errorf("where: %w", err)
	}
	if pred == nil {
		_, _ = fmt.Fprintln(s.out, "  Empty filter ignored")
		return nil
	}
	_, _ = fmt.Fprintf(s.out, "  Condition added (%d total)\n", len(s.query.wheres))
	return nil
}

func (s *Session) cmdGroup(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	arg := strings.TrimSpace(args)
	if arg == "" {
		return errors.New("usage: group <col>[, <col> ...]")
	}
	if err := s.query.setGroup(arg, s.resolver()); err != nil {
		return fmt.Errorf("group: %w", err)
	}
	_, _ = fmt.Fprintf(s.out, "  GROUP BY %s\n", strings.Join(splitNames(arg), ", "))
	return nil
}

func (s *Session) cmdLimit(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || n < 0 {
		return fmt.Errorf("invalid limit: %q", strings.TrimSpace(args))
	}
	s.query.limit = n
	if n == 0 {
		_, _ = fmt.Fprintln(s.out, "  LIMIT removed")
	} else {
		_, _ = fmt.Fprintf(s.out, "  LIMIT %d\n", n)
	}
	return nil
}

func (s *Session) cmdUndo() error {
	if s.query == nil {
		return errNoQuery
	}
	if len(s.query.wheres) == 0 {
		return errors.New("no conditions to remove")
	}
	s.query.wheres = s.query.wheres[:len(s.query.wheres)-1]
	_, _ = fmt.Fprintf(s.out, "  Condition removed (%d left)\n", len(s.query.wheres))
	return nil
}

func (s *Session) cmdSQL() error {
	if s.query == nil {
		return errNoQuery
	}
	m := s.query.selectManager(s.plugins.transformers()...)
	if s.inline {
		sql, err := m.ToInlineSQL(s.adapter)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(s.out, "  %s\n", sql)
		return nil
	}
	sql, params, err := m.ToSQL(s.adapter)
	if err != nil {
		return err
	}
	s.printStatement(sql, params)
	return nil
}

// cmdDelete shows the DELETE statement for the current table and
// conditions. It is never executed.
func (s *Session) cmdDelete() error {
	if s.query == nil {
		return errNoQuery
	}
	m := s.query.deleteManager(s.plugins.transformers()...)
	if s.inline {
		sql, err := m.ToInlineSQL(s.adapter)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(s.out, "  %s\n", sql)
		return nil
	}
	sql, params, err := m.ToSQL(s.adapter)
	if err != nil {
		return err
	}
	s.printStatement(sql, params)
	return nil
}

func (s *Session) printStatement(sql string, params []any) {
	_, _ = fmt.Fprintf(s.out, "  %s\n", sql)
	if len(params) > 0 {
		_, _ = fmt.Fprintf(s.out, "  Params: %s\n", formatArgs(params))
	}
}

func (s *Session) cmdInline() error {
	s.inline = !s.inline
	if s.inline {
		_, _ = fmt.Fprintln(s.out, "  Inline literals enabled")
	} else {
		_, _ = fmt.Fprintln(s.out, "  Inline literals disabled")
	}
	return nil
}

// cmdPlugin routes plugin sub-commands: enables a plugin by name, or
// dispatches to cmdPluginOff for disabling.
func (s *Session) cmdPlugin(args string) error {
	parts := strings.Fields(strings.TrimSpace(args))
	if len(parts) == 0 {
		return errors.New("usage: plugin <name> [args] | plugin off [name]")
	}
	name := strings.ToLower(parts[0])
	if name == "off" {
		return s.cmdPluginOff(parts[1:])
	}
	kind, ok := lookupKind(name)
	if !ok {
		return fmt.Errorf("unknown plugin: %s", name)
	}
	rest := strings.TrimSpace(strings.TrimSpace(args)[len(parts[0]):])
	p, err := kind.parse(rest)
	if err != nil {
		return err
	}
	s.plugins.enable(kind.name, p)
	_, _ = fmt.Fprintf(s.out, "  %s enabled (%s)\n", kind.label, p)
	return nil
}

func (s *Session) cmdPluginOff(parts []string) error {
	if len(parts) == 0 {
		s.plugins.clear()
		_, _ = fmt.Fprintln(s.out, "  All plugins disabled")
		return nil
	}
	name := strings.ToLower(parts[0])
	if !s.plugins.disable(name) {
		return fmt.Errorf("plugin %q is not enabled", name)
	}
	_, _ = fmt.Fprintf(s.out, "  %s disabled\n", name)
	return nil
}

func (s *Session) cmdPlugins() {
	_, _ = fmt.Fprintln(s.out, "  Available plugins:")
	for _, k := range pluginKinds {
		if p, ok := s.plugins.lookup(k.name); ok {
			_, _ = fmt.Fprintf(s.out, "    %-14s on   (%s)\n", k.name, p)
		} else {
			_, _ = fmt.Fprintf(s.out, "    %-14s off\n", k.name)
		}
	}
}

func (s *Session) cmdConnect(args string) error {
	dsn := strings.TrimSpace(args)

	if s.conn != nil {
		return fmt.Errorf("already connected to %s (use 'disconnect' first)", sanitizeDSN(s.conn.dsn))
	}
	if dsn != "" {
		return s.connectWithDSN(dsn)
	}

	// Interactive: offer reconnect if we have a previous DSN, otherwise wizard.
	if s.lastDSN != "" {
		choice := prompt(s.rl, fmt.Sprintf("Reconnect to %s? (y/n/setup)", sanitizeDSN(s.lastDSN)), "y")
		switch strings.ToLower(choice) {
		case "y", "yes":
			return s.connectWithDSN(s.lastDSN)
		case "s", "setup":
			return s.connectViaWizard()
		default:
			_, _ = fmt.Fprintln(s.out, "  Connect cancelled")
			return nil
		}
	}
	return s.connectViaWizard()
}

func (s *Session) connectWithDSN(dsn string) error {
	ctx, cancel := s.ctx()
	defer cancel()
	conn, err := connect(ctx, s.adapter.Name(), dsn, s.maxRows)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	s.conn = conn
	s.lastDSN = dsn
	_, _ = fmt.Fprintf(s.out, "  Connected to %s (%s)\n", sanitizeDSN(dsn), conn.engine)
	return nil
}

func (s *Session) connectViaWizard() error {
	var dsn string
	switch s.adapter.Name() {
	case "sqlite":
		dsn = buildSQLiteDSN(s.rl)
	case "mysql":
		dsn = buildMySQLDSN(s.rl)
	default:
		dsn = buildPostgresDSN(s.rl)
	}

	if dsn == "" {
		_, _ = fmt.Fprintln(s.out, "  No connection configured")
		return nil
	}
	_, _ = fmt.Fprintf(s.out, "  DSN: %s\n", sanitizeDSN(dsn))
	return s.connectWithDSN(dsn)
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	dsn := sanitizeDSN(s.conn.dsn)
	if err := s.conn.close(); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	s.conn = nil
	_, _ = fmt.Fprintf(s.out, "  Disconnected from %s\n", dsn)
	return nil
}

// cmdExec executes the current SELECT against the connected database.
// Values are always bound, whatever the inline setting.
func (s *Session) cmdExec() error {
	if s.conn == nil {
		return errNotConnected
	}
	if s.query == nil {
		return errNoQuery
	}
	if s.conn.engine != s.adapter.Name() {
		slog.Warn("engine differs from connected database", "engine", s.adapter.Name(), "connected", s.conn.engine)
	}

	sql, params, err := s.query.selectManager(s.plugins.transformers()...).ToSQL(s.adapter)
	if err != nil {
		return err
	}
	s.printStatement(sql, params)

	ctx, cancel := s.ctx()
	defer cancel()
	rows, err := s.conn.execQuery(ctx, sql, params)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(s.out, rows)
	return nil
}

func (s *Session) cmdTables() error {
	if s.conn == nil {
		if s.query == nil {
			_, _ = fmt.Fprintln(s.out, "  No table selected")
			return nil
		}
		_, _ = fmt.Fprintf(s.out, "  table: %s\n", s.query.table.Name)
		return nil
	}
	tables := s.conn.schemaTables()
	if len(tables) == 0 {
		_, _ = fmt.Fprintln(s.out, "  No tables found")
		return nil
	}
	for _, t := range tables {
		_, _ = fmt.Fprintf(s.out, "  table: %s\n", t)
	}
	return nil
}

// cmdDot writes the current SELECT as a Graphviz DOT graph. Plugins are
// applied one at a time so that the conditions each one adds can be drawn
// in its own cluster.
func (s *Session) cmdDot(args string) error {
	fpath := strings.TrimSpace(args)
	if fpath == "" {
		return errors.New("usage: dot <filepath>")
	}
	if s.query == nil {
		return errNoQuery
	}

	stmt := s.query.selectManager().Statement.Clone()
	prov := nodes.NewPluginProvenance()
	for _, name := range s.plugins.names() {
		p, _ := s.plugins.lookup(name)
		kind, _ := lookupKind(name)
		prev := len(stmt.Wheres)
		var err error
		stmt, err = p.TransformSelect(stmt)
		if err != nil {
			return err
		}
		for i := prev; i < len(stmt.Wheres); i++ {
			prov.AddWhere(name, kind.color, i)
		}
	}

	g := nodes.NewDotGraph()
	g.SetProvenance(prov)
	g.AddSelect(stmt)
	if err := os.WriteFile(fpath, []byte(g.ToDot()), 0o600); err != nil {
		return fmt.Errorf("failed to write DOT file: %w", err)
	}
	slog.Debug("wrote dot graph", "path", fpath, "nodes", g.NodeCount())
	_, _ = fmt.Fprintf(s.out, "  Wrote DOT to %s\n", fpath)
	return nil
}

func (s *Session) cmdReset() error {
	s.query = nil
	_, _ = fmt.Fprintln(s.out, "  Query cleared")
	return nil
}

func (s *Session) cmdStatus() {
	_, _ = fmt.Fprintf(s.out, "  Engine: %s\n", s.adapter.Name())
	if s.query != nil {
		_, _ = fmt.Fprintf(s.out, "  FROM:   %s\n", s.query.table.Name)
		if n := len(s.query.wheres); n > 0 {
			_, _ = fmt.Fprintf(s.out, "  WHERE:  %d condition(s)\n", n)
		}
		if n := len(s.query.group); n > 0 {
			_, _ = fmt.Fprintf(s.out, "  GROUP:  %d column(s)\n", n)
		}
		if s.query.limit > 0 {
			_, _ = fmt.Fprintf(s.out, "  LIMIT:  %d\n", s.query.limit)
		}
	}
	for _, name := range s.plugins.names() {
		p, _ := s.plugins.lookup(name)
		_, _ = fmt.Fprintf(s.out, "  Plugin: %s (%s)\n", name, p)
	}
	if s.inline {
		_, _ = fmt.Fprintln(s.out, "  Inline: on")
	}
	if s.conn != nil {
		_, _ = fmt.Fprintf(s.out, "  Connected: %s (%s)\n", sanitizeDSN(s.conn.dsn), s.conn.engine)
	}
}

func (s *Session) cmdHelp() {
	_, _ = fmt.Fprintln(s.out, `
  Query Building:
    from <table>              Start a new query (SELECT * FROM <table>)
    where <json>              Add a filter document, e.g. [">=", "age", 18]
    undo                      Remove the most recent condition
    group <col>[, <col>]      Set GROUP BY
    limit <n>                 Set LIMIT (0 removes it)
    columns [<col>, ...|*]    Show, set or clear the column whitelist
    reset                     Clear the current query

  Output:
    sql                       Show the SELECT statement and its params
    delete                    Show the equivalent DELETE statement
    inline                    Toggle inlined literals
    status                    Summarise the session
    dot <file>                Write the query tree as Graphviz DOT

  Filter operators:
    and, or, not, =, <>, <, <=, >, >=, like, not like,
    is null, is not null, in, not in, between, range

  Engine & Plugins:
    engine <postgres|mysql|sqlite>   Switch dialect
    plugin softdelete [args]         Enable soft-delete filtering
    plugin off [name]                Disable one or all plugins
    plugins                          List plugins

  Database:
    connect [dsn]             Connect (prompts when no DSN is given)
    disconnect                Close the connection
    exec                      Run the current SELECT
    tables                    List tables

    help                      Show this help
    exit, quit                Leave the REPL`)
}

func newQueryState(table string) *queryState {
	return &queryState{table: nodes.NewTable(table)}
}
