//go:build integration

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mariadb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	_ "modernc.org/sqlite"

	"github.com/bawdo/wherekit/adapters"
)

// Shared containers, started on first use.
var (
	sharedPg      *pgBackend
	sharedMariaDB *sqlBackend

	pgOnce      sync.Once
	mariadbOnce sync.Once

	pgContainer      *postgres.PostgresContainer
	mariadbContainer *mariadb.MariaDBContainer
)

func TestMain(m *testing.M) {
	code := m.Run()

	ctx := context.Background()
	if sharedPg != nil {
		_ = sharedPg.conn.Close(ctx)
	}
	if pgContainer != nil {
		_ = pgContainer.Terminate(ctx)
	}
	if sharedMariaDB != nil {
		_ = sharedMariaDB.db.Close()
	}
	if mariadbContainer != nil {
		_ = mariadbContainer.Terminate(ctx)
	}

	os.Exit(code)
}

// backend is a database the rendered statements run against.
type backend interface {
	adapter() adapters.Adapter
	createTable() string
	exec(ctx context.Context, query string, args ...any) (int64, error)
	count(ctx context.Context, query string, args ...any) (int, error)
}

// pgBackend talks to PostgreSQL through a native pgx connection.
type pgBackend struct {
	conn *pgx.Conn
}

func (pgBackend) adapter() adapters.Adapter { return adapters.Postgres{} }

func (pgBackend) createTable() string {
	return `CREATE TABLE people (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		age BIGINT NOT NULL,
		email TEXT,
		score DOUBLE PRECISION,
		active BOOLEAN NOT NULL
	)`
}

func (b *pgBackend) exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := b.conn.Exec(ctx, strings.TrimSuffix(query, ";"), args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (b *pgBackend) count(ctx context.Context, query string, args ...any) (int, error) {
	rows, err := b.conn.Query(ctx, strings.TrimSuffix(query, ";"), args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}

// sqlBackend talks to MariaDB or SQLite through database/sql.
type sqlBackend struct {
	db     *sql.DB
	a      adapters.Adapter
	create string
}

func (b *sqlBackend) adapter() adapters.Adapter { return b.a }

func (b *sqlBackend) createTable() string { return b.create }

func (b *sqlBackend) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := b.db.ExecContext(ctx, strings.TrimSuffix(query, ";"), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (b *sqlBackend) count(ctx context.Context, query string, args ...any) (int, error) {
	rows, err := b.db.QueryContext(ctx, strings.TrimSuffix(query, ";"), args...)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()
	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}

func getPostgres(t *testing.T) backend {
	t.Helper()

	pgOnce.Do(func() {
		ctx := context.Background()

		container, err := postgres.Run(ctx,
			"docker.io/postgres:16-alpine",
			postgres.WithDatabase("wherekit_test"),
			postgres.WithUsername("test"),
			postgres.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
		if err != nil {
			log.Fatalf("Failed to start postgres container: %v", err)
		}
		pgContainer = container

		connStr, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			log.Fatalf("Failed to get connection string: %v", err)
		}

		conn, err := pgx.Connect(ctx, connStr)
		if err != nil {
			log.Fatalf("Failed to connect to postgres: %v", err)
		}
		sharedPg = &pgBackend{conn: conn}
	})

	return sharedPg
}

func getMariaDB(t *testing.T) backend {
	t.Helper()

	mariadbOnce.Do(func() {
		ctx := context.Background()

		container, err := mariadb.Run(ctx,
			"docker.io/mariadb:11",
			mariadb.WithDatabase("wherekit_test"),
			mariadb.WithUsername("test"),
			mariadb.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("mariadbd: ready for connections").
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			log.Fatalf("Failed to start mariadb container: %v", err)
		}
		mariadbContainer = container

		connStr, err := container.ConnectionString(ctx)
		if err != nil {
			log.Fatalf("Failed to get connection string: %v", err)
		}

		db, err := sql.Open("mysql", connStr)
		if err != nil {
			log.Fatalf("Failed to connect to mariadb: %v", err)
		}
		for range 30 {
			if err := db.Ping(); err == nil {
				break
			}
			time.Sleep(time.Second)
		}

		sharedMariaDB = &sqlBackend{
			db: db,
			a:  adapters.MySQL{},
			create: `CREATE TABLE people (
				id BIGINT PRIMARY KEY,
				name VARCHAR(64) NOT NULL,
				age BIGINT NOT NULL,
				email VARCHAR(128),
				score DOUBLE,
				active BOOLEAN NOT NULL
			)`,
		}
	})

	return sharedMariaDB
}

// getSQLite opens a private in-memory database. A single connection keeps
// every statement on the same database.
func getSQLite(t *testing.T) backend {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return &sqlBackend{
		db: db,
		a:  adapters.SQLite{},
		create: `CREATE TABLE people (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			age INTEGER NOT NULL,
			email TEXT,
			score REAL,
			active INTEGER NOT NULL
		)`,
	}
}

// people is the seed data every test starts from:
//
//	id | name  | age | email             | score | active
//	 1 | Alice |  30 | alice@example.com |  9.5  | true
//	 2 | Bob   |  17 | NULL              |  4    | false
//	 3 | Carol |  45 | carol@example.com |  7.25 | true
//	 4 | Dave  |  17 | dave@example.com  | NULL  | true
var people = [][]any{
	{int64(1), "Alice", int64(30), "alice@example.com", 9.5, true},
	{int64(2), "Bob", int64(17), nil, 4.0, false},
	{int64(3), "Carol", int64(45), "carol@example.com", 7.25, true},
	{int64(4), "Dave", int64(17), "dave@example.com", nil, true},
}

// resetPeople recreates and seeds the people table.
func resetPeople(ctx context.Context, t *testing.T, b backend) {
	t.Helper()
	if _, err := b.exec(ctx, "DROP TABLE IF EXISTS people"); err != nil {
		t.Fatalf("Failed to drop table: %v", err)
	}
	if _, err := b.exec(ctx, b.createTable()); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	a := b.adapter()
	marks := make([]string, len(people[0]))
	for i := range marks {
		marks[i] = a.Placeholder(i + 1)
	}
	insert := fmt.Sprintf("INSERT INTO people (id, name, age, email, score, active) VALUES (%s)", strings.Join(marks, ", "))
	for _, row := range people {
		if _, err := b.exec(ctx, insert, row...); err != nil {
			t.Fatalf("Failed to seed row %v: %v", row, err)
		}
	}
}

// backends returns every database under test, keyed by name.
func backends(t *testing.T) map[string]backend {
	t.Helper()
	return map[string]backend{
		"postgres": getPostgres(t),
		"mariadb":  getMariaDB(t),
		"sqlite":   getSQLite(t),
	}
}
