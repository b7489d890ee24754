package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrPersonNotFound is returned by PersonRepo.Update when no row exists for
// the target id. Reads report a missing row as found=false instead.
var ErrPersonNotFound = errors.New("person not found")

// ErrConstraint matches (via errors.Is) any StorageError caused by a
// constraint violation, such as a duplicate passport id.
var ErrConstraint = errors.New("constraint violation")

// StorageError wraps a failed database round trip with the operation that
// was being attempted.
type StorageError struct {
	Op  string // e.g. "insert coordinates"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports ErrConstraint for SQLite constraint failures.
func (e *StorageError) Is(target error) bool {
	if target != ErrConstraint {
		return false
	}
	var sqliteErr sqlite3.Error
	return errors.As(e.Err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

// fault wraps err as a StorageError. Errors that are already a
// StorageError or ErrPersonNotFound pass through unchanged so the innermost
// operation name is kept.
func fault(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) || errors.Is(err, ErrPersonNotFound) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
