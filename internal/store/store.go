package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on person.owner_id
const currentSchemaVersion = 1

// Store owns the database handle shared by all repositories.
type Store struct {
	db            *sql.DB
	cascadeDelete bool
}

// Option configures a Store.
type Option func(*Store)

// WithCascadeDelete controls whether removing a Person also removes its
// coordinates and location rows. Rows still referenced by another Person
// are kept either way.
func WithCascadeDelete(enabled bool) Option {
	return func(s *Store) {
		s.cascadeDelete = enabled
	}
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time. Every caller shares this
	// single connection, so nothing may touch s.db while a tx is open.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using the repositories when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// CascadeDelete reports whether Person removal cascades to sub-entities.
func (s *Store) CascadeDelete() bool {
	return s.cascadeDelete
}

// Coordinates returns a repository bound to the shared connection.
func (s *Store) Coordinates() CoordinatesRepo {
	return CoordinatesRepo{q: s.db}
}

// Locations returns a repository bound to the shared connection.
func (s *Store) Locations() LocationRepo {
	return LocationRepo{q: s.db}
}

// Persons returns the aggregate root repository.
func (s *Store) Persons() *PersonRepo {
	return &PersonRepo{s: s}
}

// Guard returns the ownership check used before mutating a Person.
func (s *Store) Guard() AccessGuard {
	return AccessGuard{q: s.db}
}

// Tx is a unit of work. Repositories obtained from a Tx run their
// statements inside it.
type Tx struct {
	tx *sql.Tx
}

// Coordinates returns a repository bound to the transaction.
func (t *Tx) Coordinates() CoordinatesRepo {
	return CoordinatesRepo{q: t.tx}
}

// Locations returns a repository bound to the transaction.
func (t *Tx) Locations() LocationRepo {
	return LocationRepo{q: t.tx}
}

// WithTx runs fn inside a transaction. The transaction commits if fn
// returns nil and rolls back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fault("begin transaction", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fault("commit transaction", err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 indexes person.owner_id for ListByOwner.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_person_owner
		ON person(owner_id)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
