package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sigs.k8s.io/yaml"

	"github.com/bawdo/wherekit/filter"
	"github.com/bawdo/wherekit/internal/testutil"
)

// writeConfig writes a wherekit.yaml into a temp dir and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wherekit.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command with args against an explicit config
// file so the environment's own wherekit.yaml is never picked up.
func runCLI(t *testing.T, cfgBody, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", writeConfig(t, cfgBody)}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	t.Parallel()
	cmd := newRootCommand()
	testutil.AssertEqual(t, cmd.Use, "wherekit")
	for _, name := range []string{"render", "repl", "config"} {
		sub, _, err := cmd.Find([]string{name})
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, sub.Name(), name)
	}
	show, _, err := cmd.Find([]string{"config", "show"})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, show.Name(), "show")
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()
	cmd := newRootCommand()
	for _, name := range []string{"config", "engine", "verbose"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
	testutil.AssertEqual(t, cmd.PersistentFlags().Lookup("verbose").Shorthand, "v")
}

func TestRenderText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			"postgres default",
			[]string{"render", "--table", "users", `["and", [">=", "age", 18], ["like", "name", "A%"]]`},
			"SELECT * FROM \"users\" WHERE (\"users\".\"age\" >= $1 AND \"users\".\"name\" LIKE $2);\n-- args: [18, \"A%\"]\n",
		},
		{
			"no filter",
			[]string{"render", "--table", "users"},
			"SELECT * FROM \"users\";\n",
		},
		{
			"mysql inline",
			[]string{"render", "-e", "mysql", "--inline", "--table", "users", `["in", "id", [1, 2, 3]]`},
			"SELECT * FROM `users` WHERE `users`.`id` IN (1, 2, 3);\n",
		},
		{
			"sqlite bool",
			[]string{"render", "-e", "sqlite", "--table", "users", `["=", "active", true]`},
			"SELECT * FROM \"users\" WHERE \"users\".\"active\" = ?;\n-- args: [1]\n",
		},
		{
			"group and limit",
			[]string{"render", "--table", "users", "--group", "status", "--limit", "5", `["=", "active", true]`},
			"SELECT * FROM \"users\" WHERE \"users\".\"active\" = $1 GROUP BY \"users\".\"status\" LIMIT $2;\n-- args: [true, 5]\n",
		},
		{
			"soft delete default column",
			[]string{"render", "--table", "users", "--soft-delete", `["=", "id", 1]`},
			"SELECT * FROM \"users\" WHERE (\"users\".\"id\" = $1 AND \"users\".\"deleted_at\" IS NULL);\n-- args: [1]\n",
		},
		{
			"soft delete custom column",
			[]string{"render", "--table", "users", "--soft-delete=removed_at"},
			"SELECT * FROM \"users\" WHERE \"users\".\"removed_at\" IS NULL;\n",
		},
		{
			"soft delete inside whitelist",
			[]string{"render", "--table", "users", "--columns", "id,deleted_at", "--soft-delete", `["=", "id", 1]`},
			"SELECT * FROM \"users\" WHERE (\"users\".\"id\" = $1 AND \"users\".\"deleted_at\" IS NULL);\n-- args: [1]\n",
		},
		{
			"delete",
			[]string{"render", "--delete", "--table", "users", `["<", "age", 13]`},
			"DELETE FROM \"users\" WHERE \"users\".\"age\" < $1;\n-- args: [13]\n",
		},
		{
			"delete inline",
			[]string{"render", "--delete", "--inline", "--table", "users", `["=", "name", "x"]`},
			"DELETE FROM \"users\" WHERE \"users\".\"name\" = 'x';\n",
		},
		{
			"whitelist allows listed column",
			[]string{"render", "--table", "users", "--columns", "id,name", `["is not null", "name"]`},
			"SELECT * FROM \"users\" WHERE \"users\".\"name\" IS NOT NULL;\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := runCLI(t, "engine: postgres\n", "", tt.args...)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, out, tt.want)
		})
	}
}

func TestRenderStdin(t *testing.T) {
	t.Parallel()
	out, err := runCLI(t, "", `["between", "age", 18, 65]`, "render", "--table", "users", "-")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, out, "SELECT * FROM \"users\" WHERE \"users\".\"age\" >= $1 AND \"users\".\"age\" <= $2;\n-- args: [18, 65]\n")
}

func TestRenderFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "filter.json")
	if err := os.WriteFile(path, []byte(`["not", ["is null", "email"]]`), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "", "", "render", "--table", "users", "@"+path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, out, "SELECT * FROM \"users\" WHERE NOT (\"users\".\"email\" IS NULL);\n")
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()
	out, err := runCLI(t, "", "", "render", "-e", "mysql", "--format", "json", "--table", "users", `["in", "role", ["admin", "owner"]]`)
	testutil.AssertNoError(t, err)

	var res renderResult
	testutil.AssertNoError(t, json.Unmarshal([]byte(out), &res))
	testutil.AssertEqual(t, res.Engine, "mysql")
	testutil.AssertSQL(t, res.SQL, "SELECT * FROM `users` WHERE `users`.`role` IN (?, ?);")
	testutil.AssertParams(t, res.Args, "admin", "owner")
}

func TestRenderYAML(t *testing.T) {
	t.Parallel()
	out, err := runCLI(t, "", "", "render", "--format", "yaml", "--table", "users", "--columns", "id,name", `["=", "name", "x"]`)
	testutil.AssertNoError(t, err)

	var res renderResult
	testutil.AssertNoError(t, yaml.Unmarshal([]byte(out), &res))
	testutil.AssertEqual(t, res.Engine, "postgres")
	testutil.AssertSQL(t, res.SQL, `SELECT * FROM "users" WHERE "users"."name" = $1;`)
	testutil.AssertParams(t, res.Args, "x")
}

func TestRenderEmptyArgsInJSON(t *testing.T) {
	t.Parallel()
	out, err := runCLI(t, "", "", "render", "--format", "json", "--table", "users")
	testutil.AssertNoError(t, err)
	if !strings.Contains(out, `"args": []`) {
		t.Errorf("expected empty args array:\n%s", out)
	}
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
		code int
		is   error
	}{
		{"unknown column", []string{"render", "--table", "users", "--columns", "id", `["=", "email", "x"]`}, exitFilter, filter.ErrUnknownColumn},
		{"malformed", []string{"render", "--table", "users", `{"=": 1}`}, exitFilter, filter.ErrSyntax},
		{"arity", []string{"render", "--table", "users", `["=", "id"]`}, exitFilter, filter.ErrArity},
		{"group unknown column", []string{"render", "--table", "users", "--columns", "id", "--group", "status"}, exitFilter, filter.ErrUnknownColumn},
		{"soft delete outside whitelist", []string{"render", "--table", "users", "--columns", "id", "--soft-delete"}, exitFilter, filter.ErrUnknownColumn},
		{"bad format", []string{"render", "--table", "users", "--format", "xml"}, exitGeneral, nil},
		{"negative limit", []string{"render", "--table", "users", "--limit", "-1"}, exitGeneral, nil},
		{"delete with limit", []string{"render", "--delete", "--table", "users", "--limit", "1"}, exitGeneral, nil},
		{"exec with inline", []string{"render", "--exec", "--inline", "--table", "users"}, exitGeneral, nil},
		{"exec without url", []string{"render", "--exec", "--table", "users"}, exitConfig, nil},
		{"missing table", []string{"render", `["=", "id", 1]`}, exitGeneral, nil},
		{"unknown engine", []string{"render", "-e", "oracle", "--table", "users"}, exitConfig, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := runCLI(t, "database:\n  url: \"\"\n", "", tt.args...)
			testutil.AssertError(t, err)
			testutil.AssertEqual(t, reportError(&bytes.Buffer{}, err), tt.code)
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestRenderExecSQLite(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "people.db")
	db, err := sql.Open("sqlite", dbPath)
	testutil.AssertNoError(t, err)
	for _, stmt := range []string{
		"CREATE TABLE people (id INTEGER, name TEXT, age INTEGER)",
		"INSERT INTO people VALUES (1, 'Alice', 30), (2, 'Bob', 17), (3, 'Carol', 45)",
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
	testutil.AssertNoError(t, db.Close())

	cfg := "engine: sqlite\ndatabase:\n  url: " + dbPath + "\n"
	out, err := runCLI(t, cfg, "", "render", "--exec", "--table", "people", `[">", "age", 20]`)
	testutil.AssertNoError(t, err)
	for _, want := range []string{`SELECT * FROM "people" WHERE "people"."age" > ?;`, "Alice", "Carol", "(2 rows)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderExecJSONCarriesRows(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "people.db")
	db, err := sql.Open("sqlite", dbPath)
	testutil.AssertNoError(t, err)
	for _, stmt := range []string{
		"CREATE TABLE people (id INTEGER, name TEXT, email TEXT)",
		"INSERT INTO people VALUES (1, 'Alice', NULL), (2, 'Bob', 'b@x.io')",
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
	testutil.AssertNoError(t, db.Close())

	cfg := "engine: sqlite\ndatabase:\n  url: " + dbPath + "\n"
	out, err := runCLI(t, cfg, "", "render", "--exec", "--format", "json", "--table", "people", `["<", "id", 2]`)
	testutil.AssertNoError(t, err)

	var res renderResult
	testutil.AssertNoError(t, json.Unmarshal([]byte(out), &res))
	testutil.AssertSQL(t, res.SQL, `SELECT * FROM "people" WHERE "people"."id" < ?;`)
	testutil.AssertParams(t, res.Args, float64(2))
	if res.Result == nil {
		t.Fatalf("expected rows in output:\n%s", out)
	}
	testutil.AssertEqual(t, strings.Join(res.Result.Columns, ","), "id,name,email")
	testutil.AssertEqual(t, len(res.Result.Rows), 1)
	testutil.AssertEqual(t, res.Result.Rows[0][1], any("Alice"))
	testutil.AssertEqual(t, res.Result.Rows[0][2], any(nil))
}

func TestConfigShow(t *testing.T) {
	t.Parallel()
	cfg := "engine: mysql\ndatabase:\n  url: root:pw@tcp(db:3306)/shop\n  timeout: 5s\nrepl:\n  max_rows: 50\n"
	out, err := runCLI(t, cfg, "", "config", "show")
	testutil.AssertNoError(t, err)

	var view configView
	testutil.AssertNoError(t, yaml.Unmarshal([]byte(out), &view))
	testutil.AssertEqual(t, view.Engine, "mysql")
	testutil.AssertEqual(t, view.Database.URL, "root:****@tcp(db:3306)/shop")
	testutil.AssertEqual(t, view.Database.Timeout, "5s")
	testutil.AssertEqual(t, view.REPL.MaxRows, 50)
	if strings.Contains(out, "pw@") {
		t.Errorf("password leaked:\n%s", out)
	}
}

func TestConfigShowSource(t *testing.T) {
	t.Parallel()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	path := writeConfig(t, "engine: sqlite\n")
	cmd.SetArgs([]string{"--config", path, "config", "show", "--source"})
	testutil.AssertNoError(t, cmd.Execute())
	if !strings.HasPrefix(out.String(), "Config file: "+path+"\n\n") {
		t.Errorf("expected source header:\n%s", out.String())
	}
}

func TestEngineFlagOverridesConfig(t *testing.T) {
	t.Parallel()
	out, err := runCLI(t, "engine: mysql\n", "", "--engine", "sqlite", "config", "show")
	testutil.AssertNoError(t, err)
	if !strings.Contains(out, "engine: sqlite") {
		t.Errorf("expected flag to win:\n%s", out)
	}
}

func TestMissingConfigFile(t *testing.T) {
	t.Parallel()
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "config", "show"})
	err := cmd.Execute()
	testutil.AssertEqual(t, reportError(&bytes.Buffer{}, err), exitConfig)
}

func TestReportError(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	testutil.AssertEqual(t, reportError(&buf, nil), exitSuccess)
	testutil.AssertEqual(t, buf.Len(), 0)

	testutil.AssertEqual(t, reportError(&buf, errors.New("boom")), exitGeneral)
	testutil.AssertEqual(t, buf.String(), "Error: boom\n")

	buf.Reset()
	err := dbConnectError("connecting to database", errors.New("refused"))
	testutil.AssertEqual(t, reportError(&buf, err), exitDBConnect)
	testutil.AssertEqual(t, buf.String(), "Error: connecting to database: refused\n")
}

func TestFormatArgs(t *testing.T) {
	t.Parallel()
	testutil.AssertEqual(t, formatArgs([]any{int64(1), "a\"b", nil, 2.5, false}), `[1, "a\"b", NULL, 2.5, false]`)
	testutil.AssertEqual(t, formatArgs(nil), "[]")
}
