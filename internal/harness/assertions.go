package harness

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/roach88/personvault/internal/model"
	"github.com/roach88/personvault/internal/store"
)

// validIdentifier matches table names that are safe to interpolate into a
// COUNT query.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// noLocation renders a person without a location.
const noLocation = "<none>"

// evaluateAssertions checks every assertion and returns one message per
// failure.
func evaluateAssertions(ctx context.Context, st *store.Store, result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(ctx, st, result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return failures
}

func evaluateAssertion(ctx context.Context, st *store.Store, result *Result, a Assertion) error {
	switch a.Type {
	case AssertRowCount:
		return assertRowCount(ctx, st, a)
	case AssertPersonField:
		return assertPersonField(ctx, st, result, a)
	case AssertPersonAbsent:
		return assertPersonAbsent(ctx, st, result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertRowCount(ctx context.Context, st *store.Store, a Assertion) error {
	if !validIdentifier.MatchString(a.Table) {
		return fmt.Errorf("invalid table name %q", a.Table)
	}

	var n int64
	if err := st.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM "+a.Table).Scan(&n); err != nil {
		return fmt.Errorf("count %s: %w", a.Table, err)
	}
	if n != a.Count {
		return fmt.Errorf("expected %d rows in %s, got %d", a.Count, a.Table, n)
	}
	return nil
}

func assertPersonField(ctx context.Context, st *store.Store, result *Result, a Assertion) error {
	id, ok := result.Bindings[a.Target]
	if !ok {
		return fmt.Errorf("%q was never created", a.Target)
	}

	p, found, err := st.Persons().Read(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("person %q (id %d) not found", a.Target, id)
	}

	got, err := fieldValue(p, a.Field)
	if err != nil {
		return err
	}
	if got != a.Equals {
		return fmt.Errorf("%s.%s: expected %q, got %q", a.Target, a.Field, a.Equals, got)
	}
	return nil
}

func assertPersonAbsent(ctx context.Context, st *store.Store, result *Result, a Assertion) error {
	id, ok := result.Bindings[a.Target]
	if !ok {
		return nil
	}

	_, found, err := st.Persons().Read(ctx, id)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("person %q (id %d) still present", a.Target, id)
	}
	return nil
}

// fieldValue renders one field of p as compared by person_field.
func fieldValue(p model.Person, field string) (string, error) {
	switch field {
	case "id":
		return strconv.FormatInt(p.ID, 10), nil
	case "name":
		return p.Name, nil
	case "coordinates":
		return fmt.Sprintf("%d,%d", p.Coordinates.X, p.Coordinates.Y), nil
	case "coordinates_id":
		return strconv.FormatInt(p.Coordinates.ID, 10), nil
	case "location":
		if p.Location == nil {
			return noLocation, nil
		}
		return p.Location.Name, nil
	case "location_id":
		if p.Location == nil {
			return noLocation, nil
		}
		return strconv.FormatInt(p.Location.ID, 10), nil
	case "creation_date":
		return p.CreationDate.UTC().Format(time.RFC3339), nil
	case "height":
		return strconv.FormatInt(int64(p.Height), 10), nil
	case "birthday":
		return p.Birthday.Format("2006-01-02"), nil
	case "passport_id":
		return p.PassportID, nil
	case "hair_color":
		if p.HairColor == nil {
			return "", nil
		}
		return p.HairColor.Label(), nil
	case "owner_id":
		return strconv.FormatInt(int64(p.OwnerID), 10), nil
	default:
		return "", fmt.Errorf("unknown person field %q", field)
	}
}
