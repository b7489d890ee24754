package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Repository is the CRUD contract shared by the value-entity stores.
//
// Read and ResolveID report a missing row as found=false with a nil error.
// Update and Remove report whether exactly one row was affected.
type Repository[T any, ID comparable] interface {
	Insert(ctx context.Context, v T) (ID, error)
	Read(ctx context.Context, id ID) (T, bool, error)
	Update(ctx context.Context, v T, id ID) (bool, error)
	Remove(ctx context.Context, id ID) (bool, error)
	ResolveID(ctx context.Context, v T) (ID, bool, error)
	Count(ctx context.Context) (int64, error)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// insertRow executes an INSERT and returns the generated key.
func insertRow(ctx context.Context, q querier, op, query string, args ...any) (int64, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fault(op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fault(op+": rows affected", err)
	}
	if rowsAffected != 1 {
		return 0, fault(op, fmt.Errorf("expected 1 row written, got %d", rowsAffected))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fault(op+": last insert id", err)
	}
	return id, nil
}

// execAffectsOne executes a write and reports whether exactly one row changed.
func execAffectsOne(ctx context.Context, q querier, op, query string, args ...any) (bool, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fault(op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fault(op+": rows affected", err)
	}
	return rowsAffected == 1, nil
}

// countRows returns the number of rows in table. table is never user input.
func countRows(ctx context.Context, q querier, table string) (int64, error) {
	var n int64
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fault("count "+table, err)
	}
	return n, nil
}

// Storage layouts for time values. timestampLayout matches the first layout
// the sqlite3 driver tries when reading TIMESTAMP columns.
const (
	timestampLayout = "2006-01-02 15:04:05.999999999-07:00"
	dateLayout      = "2006-01-02"
)

var readLayouts = []string{
	timestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	dateLayout,
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// timeColumn scans TIMESTAMP and DATE columns whether the driver hands back
// a time.Time or the raw text.
type timeColumn struct {
	dst *time.Time
}

func (c timeColumn) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*c.dst = v.UTC()
		return nil
	case string:
		return c.parse(v)
	case []byte:
		return c.parse(string(v))
	case nil:
		*c.dst = time.Time{}
		return nil
	default:
		return fmt.Errorf("unsupported time column type %T", src)
	}
}

func (c timeColumn) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range readLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*c.dst = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized time value %q", s)
}
