package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roach88/personvault/internal/model"
)

// PersonRepo stores the aggregate root. Writes cascade into the
// coordinates and location tables inside one transaction.
type PersonRepo struct {
	s *Store
}

const selectPerson = `
	SELECT p.id, p.name, p.creation_date, p.height, p.birthday,
	       p.passport_id, p.hair_color, p.owner_id,
	       c.id, c.coordinates_x, c.coordinates_y,
	       l.id, l.location_x, l.location_y, l.location_z, l.location_name
	FROM person p
	JOIN coordinates c ON c.id = p.coordinates_id
	LEFT JOIN location l ON l.id = p.location_id
`

// Insert writes the coordinates, the location (when present) and the
// person row in one transaction. On success the generated ids and ownerID
// are assigned back onto p. The returned bool reports whether exactly one
// person row was written.
func (r *PersonRepo) Insert(ctx context.Context, p *model.Person, ownerID int32) (bool, error) {
	var (
		personID      int64
		coordinatesID int64
		locationID    sql.NullInt64
	)

	err := r.s.WithTx(ctx, func(tx *Tx) error {
		var err error
		coordinatesID, err = tx.Coordinates().Insert(ctx, p.Coordinates)
		if err != nil {
			return err
		}

		if p.Location != nil {
			id, err := tx.Locations().Insert(ctx, *p.Location)
			if err != nil {
				return err
			}
			locationID = sql.NullInt64{Int64: id, Valid: true}
		}

		personID, err = insertRow(ctx, tx.tx, "insert person", `
			INSERT INTO person
			(name, coordinates_id, creation_date, height, birthday,
			 passport_id, hair_color, location_id, owner_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			p.Name,
			coordinatesID,
			formatTimestamp(p.CreationDate),
			p.Height,
			formatDate(p.Birthday),
			p.PassportID,
			hairColorValue(p.HairColor),
			locationID,
			ownerID,
		)
		return err
	})
	if err != nil {
		return false, err
	}

	p.ID = personID
	p.OwnerID = ownerID
	p.Coordinates.ID = coordinatesID
	if p.Location != nil {
		p.Location.ID = locationID.Int64
	}
	return true, nil
}

// Read fetches a person together with its coordinates and location.
// A missing row returns found=false.
func (r *PersonRepo) Read(ctx context.Context, id int64) (model.Person, bool, error) {
	row := r.s.db.QueryRowContext(ctx, selectPerson+` WHERE p.id = ?`, id)

	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Person{}, false, nil
	}
	if err != nil {
		return model.Person{}, false, fault("read person", err)
	}
	return p, true, nil
}

// List returns every person ordered by id.
func (r *PersonRepo) List(ctx context.Context) ([]model.Person, error) {
	return r.list(ctx, "list persons", selectPerson+` ORDER BY p.id ASC`)
}

// ListByOwner returns the persons created by ownerID, ordered by id.
func (r *PersonRepo) ListByOwner(ctx context.Context, ownerID int32) ([]model.Person, error) {
	return r.list(ctx, "list persons by owner", selectPerson+` WHERE p.owner_id = ? ORDER BY p.id ASC`, ownerID)
}

func (r *PersonRepo) list(ctx context.Context, op, query string, args ...any) ([]model.Person, error) {
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fault(op, err)
	}
	defer rows.Close()

	persons := []model.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fault(op, err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fault(op, err)
	}
	return persons, nil
}

// Count returns the number of person rows.
func (r *PersonRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.s.db, "person")
}

// Remove deletes the person row. With cascade delete enabled, its
// coordinates and location rows are deleted too unless another person
// references them.
func (r *PersonRepo) Remove(ctx context.Context, id int64) (bool, error) {
	if !r.s.cascadeDelete {
		return execAffectsOne(ctx, r.s.db, "remove person", `
			DELETE FROM person WHERE id = ?
		`, id)
	}

	var removed bool
	err := r.s.WithTx(ctx, func(tx *Tx) error {
		refs, found, err := readRefs(ctx, tx.tx, id)
		if err != nil || !found {
			return err
		}

		removed, err = execAffectsOne(ctx, tx.tx, "remove person", `
			DELETE FROM person WHERE id = ?
		`, id)
		if err != nil {
			return err
		}

		return removeOrphans(ctx, tx, refs)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// Update rewrites a person in place.
//
// The existing coordinates row is always overwritten at its current id;
// update never allocates a new coordinates row. An existing location row is
// likewise overwritten in place, or a new one is inserted when the person had
// none. If p has no location, location_id is cleared. The owner is never
// changed.
//
// Returns ErrPersonNotFound when no row exists for id.
func (r *PersonRepo) Update(ctx context.Context, p *model.Person, id int64) (bool, error) {
	var (
		updated bool
		refs    personRefs
		newLoc  sql.NullInt64
	)

	err := r.s.WithTx(ctx, func(tx *Tx) error {
		var (
			found bool
			err   error
		)
		refs, found, err = readRefs(ctx, tx.tx, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrPersonNotFound
		}

		switch {
		case p.Location != nil && !refs.locationID.Valid:
			locID, err := tx.Locations().Insert(ctx, *p.Location)
			if err != nil {
				return err
			}
			newLoc = sql.NullInt64{Int64: locID, Valid: true}
		case p.Location != nil:
			if _, err := tx.Locations().Update(ctx, *p.Location, refs.locationID.Int64); err != nil {
				return err
			}
			newLoc = refs.locationID
		}

		if _, err := tx.Coordinates().Update(ctx, p.Coordinates, refs.coordinatesID); err != nil {
			return err
		}

		updated, err = execAffectsOne(ctx, tx.tx, "update person", `
			UPDATE person
			SET name = ?, coordinates_id = ?, creation_date = ?,
			    height = ?, birthday = ?, passport_id = ?,
			    hair_color = ?, location_id = ?
			WHERE id = ?
		`,
			p.Name,
			refs.coordinatesID,
			formatTimestamp(p.CreationDate),
			p.Height,
			formatDate(p.Birthday),
			p.PassportID,
			hairColorValue(p.HairColor),
			newLoc,
			id,
		)
		if err != nil {
			return err
		}

		// A detached location is only garbage when cascade delete is on.
		if r.s.cascadeDelete && refs.locationID.Valid && !newLoc.Valid {
			if _, err := tx.Locations().removeIfUnreferenced(ctx, refs.locationID.Int64); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	p.ID = id
	p.Coordinates.ID = refs.coordinatesID
	if p.Location != nil {
		p.Location.ID = newLoc.Int64
	}
	return updated, nil
}

// personRefs holds the foreign keys of a person row.
type personRefs struct {
	coordinatesID int64
	locationID    sql.NullInt64
}

func readRefs(ctx context.Context, q querier, id int64) (personRefs, bool, error) {
	var refs personRefs
	err := q.QueryRowContext(ctx, `
		SELECT coordinates_id, location_id FROM person WHERE id = ?
	`, id).Scan(&refs.coordinatesID, &refs.locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return personRefs{}, false, nil
	}
	if err != nil {
		return personRefs{}, false, fault("read person references", err)
	}
	return refs, true, nil
}

func removeOrphans(ctx context.Context, tx *Tx, refs personRefs) error {
	if _, err := tx.Coordinates().removeIfUnreferenced(ctx, refs.coordinatesID); err != nil {
		return err
	}
	if refs.locationID.Valid {
		if _, err := tx.Locations().removeIfUnreferenced(ctx, refs.locationID.Int64); err != nil {
			return err
		}
	}
	return nil
}

func hairColorValue(c *model.HairColor) sql.NullString {
	if c == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: c.Label(), Valid: true}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (model.Person, error) {
	var (
		p         model.Person
		hairColor sql.NullString
		locID     sql.NullInt64
		locX      sql.NullFloat64
		locY      sql.NullInt64
		locZ      sql.NullInt32
		locName   sql.NullString
	)

	if err := row.Scan(
		&p.ID, &p.Name, timeColumn{&p.CreationDate}, &p.Height, timeColumn{&p.Birthday},
		&p.PassportID, &hairColor, &p.OwnerID,
		&p.Coordinates.ID, &p.Coordinates.X, &p.Coordinates.Y,
		&locID, &locX, &locY, &locZ, &locName,
	); err != nil {
		return model.Person{}, err
	}

	if hairColor.Valid {
		c := model.HairColor(hairColor.String)
		p.HairColor = &c
	}

	if locID.Valid {
		p.Location = &model.Location{
			ID:   locID.Int64,
			X:    locX.Float64,
			Y:    locY.Int64,
			Z:    locZ.Int32,
			Name: locName.String,
		}
	}

	return p, nil
}
