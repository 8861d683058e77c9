package filter

import (
	"errors"
	"sort"
	"testing"

	"github.com/bawdo/wherekit/adapters"
	"github.com/bawdo/wherekit/internal/testutil"
	"github.com/bawdo/wherekit/nodes"
	"github.com/bawdo/wherekit/render"
)

var users = nodes.NewTable("users")

var cols = ColumnsOf(users, "name", "age", "status", "deleted_at", "score", "active")

func decodeSQL(t *testing.T, doc string) (string, []any) {
	t.Helper()
	p, err := Decode([]byte(doc), cols)
	testutil.AssertNoError(t, err)
	if p == nil {
		t.Fatal("expected a predicate")
	}
	ctx := render.NewContext(adapters.Postgres{})
	return ctx.Finalize(p.ToSQL(ctx))
}

func TestDecodeComparisons(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		doc  string
		sql  string
		args []any
	}{
		{"eq string", `["=", "name", "Alice"]`, `"users"."name" = $1;`, []any{"Alice"}},
		{"eq int", `["=", "age", 30]`, `"users"."age" = $1;`, []any{int64(30)}},
		{"eq float", `["=", "score", 0.5]`, `"users"."score" = $1;`, []any{0.5}},
		{"eq bool", `["=", "active", true]`, `"users"."active" = $1;`, []any{true}},
		{"eq null", `["=", "deleted_at", null]`, `"users"."deleted_at" IS NULL;`, nil},
		{"ne", `["<>", "status", "closed"]`, `"users"."status" <> $1;`, []any{"closed"}},
		{"ne null", `["<>", "deleted_at", null]`, `"users"."deleted_at" IS NOT NULL;`, nil},
		{"lt", `["<", "age", 18]`, `"users"."age" < $1;`, []any{int64(18)}},
		{"lte", `["<=", "age", 18]`, `"users"."age" <= $1;`, []any{int64(18)}},
		{"gt", `[">", "age", 18]`, `"users"."age" > $1;`, []any{int64(18)}},
		{"gte", `[">=", "age", 18]`, `"users"."age" >= $1;`, []any{int64(18)}},
		{"like", `["like", "name", "A%"]`, `"users"."name" LIKE $1;`, []any{"A%"}},
		{"not like", `["not like", "name", "%x"]`, `"users"."name" NOT LIKE $1;`, []any{"%x"}},
		{"is null", `["is null", "deleted_at"]`, `"users"."deleted_at" IS NULL;`, nil},
		{"is not null", `["is not null", "deleted_at"]`, `"users"."deleted_at" IS NOT NULL;`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sql, args := decodeSQL(t, tt.doc)
			testutil.AssertSQL(t, sql, tt.sql)
			testutil.AssertParams(t, args, tt.args...)
		})
	}
}

func TestDecodeSets(t *testing.T) {
	t.Parallel()
	sql, args := decodeSQL(t, `["in", "status", ["new", "open"]]`)
	testutil.AssertSQL(t, sql, `"users"."status" IN ($1, $2);`)
	testutil.AssertParams(t, args, "new", "open")

	sql, args = decodeSQL(t, `["not in", "age", [1, 2.5]]`)
	testutil.AssertSQL(t, sql, `"users"."age" NOT IN ($1, $2);`)
	testutil.AssertParams(t, args, int64(1), 2.5)

	sql, _ = decodeSQL(t, `["in", "status", []]`)
	testutil.AssertSQL(t, sql, "1 = 0;")
}

func TestDecodeRanges(t *testing.T) {
	t.Parallel()
	tests := []struct {
		doc string
		sql string
	}{
		{`["between", "age", 18, 65]`, `"users"."age" >= $1 AND "users"."age" <= $2;`},
		{`["range", "age", 18, 65, "[]"]`, `"users"."age" >= $1 AND "users"."age" <= $2;`},
		{`["range", "age", 18, 65, "()"]`, `"users"."age" > $1 AND "users"."age" < $2;`},
		{`["range", "age", 18, 65, "(]"]`, `"users"."age" > $1 AND "users"."age" <= $2;`},
		{`["range", "age", 18, 65, "[)"]`, `"users"."age" >= $1 AND "users"."age" < $2;`},
	}
	for _, tt := range tests {
		sql, args := decodeSQL(t, tt.doc)
		testutil.AssertSQL(t, sql, tt.sql)
		testutil.AssertParams(t, args, int64(18), int64(65))
	}
}

func TestDecodeLogical(t *testing.T) {
	t.Parallel()
	doc := `["and", ["or", ["=", "status", "new"], ["=", "status", "open"]], ["not", ["is null", "name"]], [">", "age", 21]]`
	sql, args := decodeSQL(t, doc)
	testutil.AssertSQL(t, sql, `((("users"."status" = $1 OR "users"."status" = $2) AND NOT ("users"."name" IS NULL)) AND "users"."age" > $3);`)
	testutil.AssertParams(t, args, "new", "open", int64(21))
}

func TestDecodeSingleOperandLogical(t *testing.T) {
	t.Parallel()
	sql, _ := decodeSQL(t, `["or", ["is null", "name"]]`)
	testutil.AssertSQL(t, sql, `"users"."name" IS NULL;`)
}

func TestDecodeEmptyDocument(t *testing.T) {
	t.Parallel()
	for _, doc := range []string{"", "  ", "null"} {
		p, err := Decode([]byte(doc), cols)
		testutil.AssertNoError(t, err)
		if p != nil {
			t.Errorf("expected nil predicate for %q", doc)
		}
	}
}

func TestDecodeLargeIntegerStaysExact(t *testing.T) {
	t.Parallel()
	_, args := decodeSQL(t, `["=", "age", 9007199254740993]`)
	testutil.AssertParams(t, args, int64(9007199254740993))
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		doc     string
		wantErr error
		wantMsg string
	}{
		{"unknown column", `["=", "password", "x"]`, ErrUnknownColumn, `$[1]: unknown column "password"`},
		{"nested unknown column", `["and", ["=", "name", "a"], ["is null", "secret"]]`, ErrUnknownColumn, `$[2][1]: unknown column "secret"`},
		{"unknown operator", `["~", "name", "a"]`, ErrUnknownOperator, `$[0]: unknown operator "~"`},
		{"compare arity", `["=", "name"]`, ErrArity, `$: "=" wrong number of arguments: want 2, found 1`},
		{"not arity", `["not", ["is null", "name"], ["is null", "age"]]`, ErrArity, ""},
		{"and arity", `["and"]`, ErrArity, ""},
		{"range arity", `["range", "age", 1, 2]`, ErrArity, ""},
		{"object", `{"name": "x"}`, ErrSyntax, ""},
		{"empty list", `[]`, ErrSyntax, ""},
		{"operator not string", `[1, "name"]`, ErrSyntax, ""},
		{"column not string", `["=", 1, 2]`, ErrSyntax, ""},
		{"value is list", `["=", "name", [1]]`, ErrSyntax, ""},
		{"in needs list", `["in", "name", "a"]`, ErrSyntax, ""},
		{"in nested list", `["in", "name", [[1]]]`, ErrSyntax, `$[2][0]: malformed filter`},
		{"bad bounds", `["range", "age", 1, 2, "[["]`, ErrSyntax, ""},
		{"null endpoint", `["between", "age", null, 2]`, ErrSyntax, ""},
		{"null comparison", `["<", "age", null]`, ErrSyntax, ""},
		{"like non-string", `["like", "name", 5]`, ErrSyntax, ""},
		{"invalid json", `["=", "name"`, ErrSyntax, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := Decode([]byte(tt.doc), cols)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if p != nil {
				t.Error("expected nil predicate on error")
			}
			if tt.wantMsg != "" && !hasPrefix(err.Error(), tt.wantMsg) {
				t.Errorf("expected message starting %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func TestAnyColumn(t *testing.T) {
	t.Parallel()
	r := AnyColumn{Table: users}
	p, err := Decode([]byte(`["=", "anything", 1]`), r)
	testutil.AssertNoError(t, err)
	ctx := render.NewContext(adapters.MySQL{})
	sql, _ := ctx.Finalize(p.ToSQL(ctx))
	testutil.AssertSQL(t, sql, "`users`.`anything` = ?;")

	for _, bad := range []string{`a.b`, `1abc`, `x"; --`, ``} {
		if _, ok := r.Resolve(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
	_, err = Decode([]byte(`["is null", "no-dash"]`), r)
	if !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestOperators(t *testing.T) {
	t.Parallel()
	got := Operators()
	if len(got) != 17 {
		t.Fatalf("expected 17 operators, got %d: %v", len(got), got)
	}
	if !sort.StringsAreSorted(got) {
		t.Errorf("operators not sorted: %v", got)
	}
	for _, name := range got {
		if _, ok := ops[name]; !ok {
			t.Errorf("unknown operator %q", name)
		}
	}
}
