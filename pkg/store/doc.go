// Package store implements the Persistence Store: durable
// records of workflow and node executions, written transactionally so a
// crash between steps never leaves a half-written row.
//
// Two implementations share the Store interface: SQLStore, built on
// database/sql + sqlx.DB against either Postgres (github.com/jackc/pgx/v5)
// or an embedded pure-Go sqlite (modernc.org/sqlite) — both register
// standard database/sql drivers, so the same queries run against either —
// with schema migrations applied at startup via github.com/pressly/goose/v3;
// and InMemoryStore
// (sync.RWMutex-guarded map, defensive copies on read), used by tests and
// single-process demo wiring that doesn't want a database.
package store
