package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/user"
	"strings"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"
)

const replPrompt = "wherekit> "

func newREPLCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Build and run filters interactively",
		Long: `Start an interactive shell for building queries from filter documents,
inspecting the rendered SQL and executing it against a database.

If database.url is configured (or DATABASE_URL is set) the shell connects
on start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(rootOpts, cmd.OutOrStdout())
		},
	}
}

func runREPL(opts *rootOptions, out io.Writer) error {
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          replPrompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer func() { _ = rl.Close() }()

	sess := NewSession(opts.adapter, opts.cfg, rl)
	sess.out = out

	// Set up the completer now that we have a session.
	_ = rl.SetConfig(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     opts.cfg.REPL.HistoryFile,
		HistoryLimit:    500,
		AutoComplete:    &replCompleter{sess: sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})

	_, _ = fmt.Fprintf(out, "[Config] Engine: %s\n", sess.adapter.Name())
	if dsn := opts.cfg.Database.URL; dsn != "" {
		_, _ = fmt.Fprintf(out, "[Config] Connecting to %s...\n", sanitizeDSN(dsn))
		if err := sess.connectWithDSN(dsn); err != nil {
			slog.Warn("configured database unavailable", "error", err)
		}
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "wherekit REPL: type 'help' for commands, 'exit' to quit")
	_, _ = fmt.Fprintln(out)

	runLoop(sess, rl.ReadLine, os.Stderr)

	if sess.conn != nil {
		_ = sess.conn.close()
	}
	_, _ = fmt.Fprintln(out)
	return nil
}

// runLoop reads lines until EOF or exit, reporting command errors to errOut.
func runLoop(sess *Session, readLine func() (string, error), errOut io.Writer) {
	for {
		line, err := readLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if lower == "exit" || lower == "quit" {
			return
		}
		if err := sess.Execute(line); err != nil {
			_, _ = fmt.Fprintf(errOut, "  Error: %v\n", err)
		}
	}
}

// prompt prints a label with an optional default and returns the user's input
// (or the default if they press enter).
func prompt(rl *readline.Instance, label, defaultVal string) string {
	if rl == nil {
		return defaultVal
	}
	if defaultVal != "" {
		rl.SetPrompt(fmt.Sprintf("[Config]   %s [%s]: ", label, defaultVal))
	} else {
		rl.SetPrompt(fmt.Sprintf("[Config]   %s: ", label))
	}
	defer rl.SetPrompt(replPrompt)
	line, err := rl.ReadLine()
	if err != nil {
		return defaultVal
	}
	if val := strings.TrimSpace(line); val != "" {
		return val
	}
	return defaultVal
}

func buildSQLiteDSN(rl *readline.Instance) string {
	return prompt(rl, "Database path", ":memory:")
}

func buildPostgresDSN(rl *readline.Instance) string {
	defaultUser := "postgres"
	if u, err := user.Current(); err == nil && u.Username != "" {
		defaultUser = u.Username
	}

	dbUser := prompt(rl, "User", defaultUser)
	dbPass := prompt(rl, "Password", "")
	host := prompt(rl, "Host", "localhost")
	port := prompt(rl, "Port", "5432")
	dbName := prompt(rl, "Database", dbUser)
	sslMode := prompt(rl, "SSL mode (disable/require/verify-full)", "disable")

	return postgresDSN(dbUser, dbPass, host, port, dbName, sslMode)
}

func postgresDSN(dbUser, dbPass, host, port, dbName, sslMode string) string {
	userInfo := url.User(dbUser)
	if dbPass != "" {
		userInfo = url.UserPassword(dbUser, dbPass)
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     host + ":" + port,
		Path:     "/" + dbName,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}

func buildMySQLDSN(rl *readline.Instance) string {
	dbUser := prompt(rl, "User", "root")
	dbPass := prompt(rl, "Password", "")
	host := prompt(rl, "Host", "localhost")
	port := prompt(rl, "Port", "3306")
	dbName := prompt(rl, "Database", "")
	return mysqlDSN(dbUser, dbPass, host, port, dbName)
}

// mysqlDSN formats user:pass@tcp(host:port)/dbname. An empty database
// name yields an empty DSN.
func mysqlDSN(dbUser, dbPass, host, port, dbName string) string {
	if dbName == "" {
		return ""
	}
	auth := dbUser
	if dbPass != "" {
		auth += ":" + dbPass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s", auth, host, port, dbName)
}
