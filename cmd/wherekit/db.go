package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// catalog is how one engine is opened and introspected.
type catalog struct {
	driver  string
	tables  string
	columns string // takes the table name as its only parameter
}

var catalogs = map[string]catalog{
	"postgres": {
		driver:  "pgx",
		tables:  "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name",
		columns: "SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1 ORDER BY ordinal_position",
	},
	"mysql": {
		driver:  "mysql",
		tables:  "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name",
		columns: "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position",
	},
	"sqlite": {
		driver:  "sqlite",
		tables:  "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
		columns: "SELECT name FROM pragma_table_info(?)",
	},
}

type dbConn struct {
	db      *sql.DB
	dsn     string
	engine  string
	cat     catalog
	maxRows int
	tables  []string
	columns map[string][]string // filled on first lookup per table
}

// connect opens and pings a database for the given canonical engine name.
// Schema loading is best effort; only completion and whitelisting use it.
func connect(ctx context.Context, engine, dsn string, maxRows int) (*dbConn, error) {
	cat, ok := catalogs[engine]
	if !ok {
		return nil, fmt.Errorf("no driver for engine %q", engine)
	}
	db, err := sql.Open(cat.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if engine == "sqlite" {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	slog.Debug("connected", "engine", engine, "driver", cat.driver, "dsn", sanitizeDSN(dsn))

	c := &dbConn{db: db, dsn: dsn, engine: engine, cat: cat, maxRows: maxRows, columns: map[string][]string{}}
	if err := c.loadSchema(ctx); err != nil {
		slog.Warn("schema introspection failed", "error", err)
	}
	return c, nil
}

func (c *dbConn) close() error {
	return c.db.Close()
}

// resultSet holds at most maxRows rows of a query, every cell as text.
// NULL cells are nil.
type resultSet struct {
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	Truncated bool     `json:"truncated,omitempty"`
}

// execQuery runs a rendered SELECT. The terminator is dropped because
// drivers prepare exactly one statement.
func (c *dbConn) execQuery(ctx context.Context, query string, params []any) (*resultSet, error) {
	query = strings.TrimSuffix(strings.TrimSpace(query), ";")
	slog.Debug("executing", "sql", query, "params", len(params))
	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	rs := &resultSet{Columns: cols, Rows: [][]any{}}
	cells := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if len(rs.Rows) == c.maxRows {
			rs.Truncated = true
			break
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := make([]any, len(cells))
		for i, cell := range cells {
			if cell.Valid {
				row[i] = cell.String
			}
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return rs, nil
}

// String draws the result as a boxed table followed by the row count.
func (rs *resultSet) String() string {
	if len(rs.Columns) == 0 {
		return "(0 rows)\n"
	}
	text := make([][]string, 0, len(rs.Rows)+1)
	text = append(text, rs.Columns)
	for _, row := range rs.Rows {
		line := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				line[i] = "NULL"
			} else {
				line[i] = fmt.Sprint(v)
			}
		}
		text = append(text, line)
	}

	widths := make([]int, len(rs.Columns))
	for _, line := range text {
		for i, cell := range line {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}
	rule := "+"
	for _, w := range widths {
		rule += strings.Repeat("-", w+2) + "+"
	}
	rule += "\n"

	var b strings.Builder
	b.WriteString(rule)
	for n, line := range text {
		b.WriteByte('|')
		for i, cell := range line {
			b.WriteString(" " + cell + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)) + " |")
		}
		b.WriteByte('\n')
		if n == 0 {
			b.WriteString(rule)
		}
	}
	b.WriteString(rule)

	if n := len(rs.Rows); n == 1 {
		b.WriteString("(1 row)\n")
	} else {
		fmt.Fprintf(&b, "(%d rows)\n", n)
	}
	if rs.Truncated {
		fmt.Fprintf(&b, "(truncated at %d rows)\n", len(rs.Rows))
	}
	return b.String()
}

func (c *dbConn) loadSchema(ctx context.Context) error {
	tables, err := c.textColumn(ctx, c.cat.tables)
	if err != nil {
		return err
	}
	c.tables = tables
	return nil
}

func (c *dbConn) schemaTables() []string {
	return c.tables
}

func (c *dbConn) schemaColumns(ctx context.Context, table string) []string {
	if cols, ok := c.columns[table]; ok {
		return cols
	}
	cols, err := c.textColumn(ctx, c.cat.columns, table)
	if err != nil {
		slog.Debug("column introspection failed", "table", table, "error", err)
		return nil
	}
	c.columns[table] = cols
	return cols
}

// textColumn runs a query returning a single text column.
func (c *dbConn) textColumn(ctx context.Context, query string, params ...any) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// sanitizeDSN masks the password in URL and MySQL-style DSNs.
func sanitizeDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.User != nil {
		if _, ok := u.User.Password(); !ok {
			return dsn
		}
		// Built by hand so the mask is not percent-encoded.
		masked := u.Scheme + "://" + u.User.Username() + ":****@" + u.Host + u.Path
		if u.RawQuery != "" {
			masked += "?" + u.RawQuery
		}
		return masked
	}

	// user:pass@tcp(host)/db
	creds, rest, ok := strings.Cut(dsn, "@")
	if !ok || creds == "" {
		return dsn
	}
	if user, _, hasPass := strings.Cut(creds, ":"); hasPass {
		return user + ":****@" + rest
	}
	return dsn
}
