package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roach88/personvault/internal/model"
)

var _ Repository[model.Location, int64] = LocationRepo{}

// LocationRepo stores the optional value entity of a Person.
// It mirrors CoordinatesRepo.
type LocationRepo struct {
	q querier
}

// Insert appends a new row and returns its generated id.
func (r LocationRepo) Insert(ctx context.Context, l model.Location) (int64, error) {
	return insertRow(ctx, r.q, "insert location", `
		INSERT INTO location (location_x, location_y, location_z, location_name)
		VALUES (?, ?, ?, ?)
	`, l.X, l.Y, l.Z, l.Name)
}

// Read fetches a row by id. A missing row returns found=false.
func (r LocationRepo) Read(ctx context.Context, id int64) (model.Location, bool, error) {
	var l model.Location
	err := r.q.QueryRowContext(ctx, `
		SELECT id, location_x, location_y, location_z, location_name
		FROM location
		WHERE id = ?
	`, id).Scan(&l.ID, &l.X, &l.Y, &l.Z, &l.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Location{}, false, nil
	}
	if err != nil {
		return model.Location{}, false, fault("read location", err)
	}
	return l, true, nil
}

// Update overwrites every field of the row at id.
func (r LocationRepo) Update(ctx context.Context, l model.Location, id int64) (bool, error) {
	return execAffectsOne(ctx, r.q, "update location", `
		UPDATE location
		SET location_x = ?, location_y = ?, location_z = ?, location_name = ?
		WHERE id = ?
	`, l.X, l.Y, l.Z, l.Name, id)
}

// Remove deletes the row at id.
func (r LocationRepo) Remove(ctx context.Context, id int64) (bool, error) {
	return execAffectsOne(ctx, r.q, "remove location", `
		DELETE FROM location WHERE id = ?
	`, id)
}

// ResolveID looks up an id by field values, lowest id first.
func (r LocationRepo) ResolveID(ctx context.Context, l model.Location) (int64, bool, error) {
	var id int64
	err := r.q.QueryRowContext(ctx, `
		SELECT id FROM location
		WHERE location_x = ? AND location_y = ? AND location_z = ? AND location_name = ?
		ORDER BY id ASC
		LIMIT 1
	`, l.X, l.Y, l.Z, l.Name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fault("resolve location id", err)
	}
	return id, true, nil
}

// Count returns the number of location rows.
func (r LocationRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.q, "location")
}

func (r LocationRepo) removeIfUnreferenced(ctx context.Context, id int64) (bool, error) {
	return execAffectsOne(ctx, r.q, "remove location", `
		DELETE FROM location
		WHERE id = ?
		AND NOT EXISTS (SELECT 1 FROM person WHERE location_id = ?)
	`, id, id)
}
