package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roach88/personvault/internal/model"
)

var _ Repository[model.Coordinates, int64] = CoordinatesRepo{}

// CoordinatesRepo stores the mandatory value entity of a Person.
// Obtain one from Store.Coordinates or Tx.Coordinates.
type CoordinatesRepo struct {
	q querier
}

// Insert appends a new row and returns its generated id.
func (r CoordinatesRepo) Insert(ctx context.Context, c model.Coordinates) (int64, error) {
	return insertRow(ctx, r.q, "insert coordinates", `
		INSERT INTO coordinates (coordinates_x, coordinates_y)
		VALUES (?, ?)
	`, c.X, c.Y)
}

// Read fetches a row by id. A missing row returns found=false.
func (r CoordinatesRepo) Read(ctx context.Context, id int64) (model.Coordinates, bool, error) {
	var c model.Coordinates
	err := r.q.QueryRowContext(ctx, `
		SELECT id, coordinates_x, coordinates_y
		FROM coordinates
		WHERE id = ?
	`, id).Scan(&c.ID, &c.X, &c.Y)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Coordinates{}, false, nil
	}
	if err != nil {
		return model.Coordinates{}, false, fault("read coordinates", err)
	}
	return c, true, nil
}

// Update overwrites every field of the row at id.
func (r CoordinatesRepo) Update(ctx context.Context, c model.Coordinates, id int64) (bool, error) {
	return execAffectsOne(ctx, r.q, "update coordinates", `
		UPDATE coordinates
		SET coordinates_x = ?, coordinates_y = ?
		WHERE id = ?
	`, c.X, c.Y, id)
}

// Remove deletes the row at id.
func (r CoordinatesRepo) Remove(ctx context.Context, id int64) (bool, error) {
	return execAffectsOne(ctx, r.q, "remove coordinates", `
		DELETE FROM coordinates WHERE id = ?
	`, id)
}

// ResolveID looks up an id by field values. Rows are not unique by value;
// when several match, the lowest id is returned.
func (r CoordinatesRepo) ResolveID(ctx context.Context, c model.Coordinates) (int64, bool, error) {
	var id int64
	err := r.q.QueryRowContext(ctx, `
		SELECT id FROM coordinates
		WHERE coordinates_x = ? AND coordinates_y = ?
		ORDER BY id ASC
		LIMIT 1
	`, c.X, c.Y).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fault("resolve coordinates id", err)
	}
	return id, true, nil
}

// Count returns the number of coordinates rows.
func (r CoordinatesRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.q, "coordinates")
}

// removeIfUnreferenced deletes the row unless a person still points at it.
func (r CoordinatesRepo) removeIfUnreferenced(ctx context.Context, id int64) (bool, error) {
	return execAffectsOne(ctx, r.q, "remove coordinates", `
		DELETE FROM coordinates
		WHERE id = ?
		AND NOT EXISTS (SELECT 1 FROM person WHERE coordinates_id = ?)
	`, id, id)
}
