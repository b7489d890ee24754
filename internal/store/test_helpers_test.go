package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/personvault/internal/model"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestPerson builds a valid person without a location.
func createTestPerson(name, passport string) model.Person {
	return model.Person{
		Name:         name,
		Coordinates:  model.Coordinates{X: 100, Y: 200},
		CreationDate: time.Date(2024, 3, 15, 10, 30, 45, 123456000, time.UTC),
		Height:       180,
		Birthday:     time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		PassportID:   passport,
		HairColor:    model.HairColorPtr(model.HairBlack),
	}
}

// tableCounts returns the row counts of coordinates, location and person.
func tableCounts(t *testing.T, s *Store) [3]int64 {
	t.Helper()
	ctx := context.Background()

	var counts [3]int64
	var err error
	if counts[0], err = s.Coordinates().Count(ctx); err != nil {
		t.Fatalf("count coordinates: %v", err)
	}
	if counts[1], err = s.Locations().Count(ctx); err != nil {
		t.Fatalf("count location: %v", err)
	}
	if counts[2], err = s.Persons().Count(ctx); err != nil {
		t.Fatalf("count person: %v", err)
	}
	return counts
}
