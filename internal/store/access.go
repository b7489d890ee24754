package store

import (
	"context"
	"database/sql"
	"errors"
)

// AccessGuard checks whether a caller owns a Person. The check is
// advisory: the repositories do not enforce it themselves.
type AccessGuard struct {
	q querier
}

// CheckAccess reports whether ownerID owns personID. A missing person
// yields false with a nil error.
func (g AccessGuard) CheckAccess(ctx context.Context, personID int64, ownerID int32) (bool, error) {
	var stored int32
	err := g.q.QueryRowContext(ctx, `
		SELECT owner_id FROM person WHERE id = ?
	`, personID).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fault("check access", err)
	}
	return stored == ownerID, nil
}
