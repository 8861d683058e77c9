// Package integration runs rendered predicates against real databases.
// PostgreSQL and MariaDB are started with testcontainers; SQLite runs
// in memory. The tests carry the integration build tag:
//
//	go test -tags integration ./internal/integration/...
package integration
