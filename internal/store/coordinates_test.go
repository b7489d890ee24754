package store

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/personvault/internal/model"
)

func TestCoordinates_InsertRead(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	repo := s.Coordinates()

	id, err := repo.Insert(ctx, model.Coordinates{X: -9000000000, Y: 42})
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("Insert() returned id %d, want positive", id)
	}

	got, found, err := repo.Read(ctx, id)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if !found {
		t.Fatal("Read() found = false, want true")
	}
	want := model.Coordinates{ID: id, X: -9000000000, Y: 42}
	if got != want {
		t.Errorf("Read() = %+v, want %+v", got, want)
	}
}

func TestCoordinates_ReadMissing(t *testing.T) {
	s := createTestStore(t)

	got, found, err := s.Coordinates().Read(context.Background(), 999)
	if err != nil {
		t.Fatalf("Read() error = %v, want nil", err)
	}
	if found {
		t.Errorf("Read() found = true for missing id, got %+v", got)
	}
}

func TestCoordinates_Update(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	repo := s.Coordinates()

	id, err := repo.Insert(ctx, model.Coordinates{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	ok, err := repo.Update(ctx, model.Coordinates{X: 3, Y: 4}, id)
	if err != nil || !ok {
		t.Fatalf("Update() = %v, %v; want true, nil", ok, err)
	}

	got, _, err := repo.Read(ctx, id)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if got.X != 3 || got.Y != 4 {
		t.Errorf("after Update(), got %+v", got)
	}

	ok, err = repo.Update(ctx, model.Coordinates{X: 5, Y: 6}, id+100)
	if err != nil {
		t.Fatalf("Update() of missing row errored: %v", err)
	}
	if ok {
		t.Error("Update() of missing row returned true")
	}
}

func TestCoordinates_Remove(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	repo := s.Coordinates()

	id, err := repo.Insert(ctx, model.Coordinates{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	ok, err := repo.Remove(ctx, id)
	if err != nil || !ok {
		t.Fatalf("Remove() = %v, %v; want true, nil", ok, err)
	}

	ok, err = repo.Remove(ctx, id)
	if err != nil || ok {
		t.Errorf("second Remove() = %v, %v; want false, nil", ok, err)
	}
}

func TestCoordinates_ResolveID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	repo := s.Coordinates()

	id, err := repo.Insert(ctx, model.Coordinates{X: 7, Y: 8})
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	got, found, err := repo.ResolveID(ctx, model.Coordinates{X: 7, Y: 8})
	if err != nil || !found {
		t.Fatalf("ResolveID() = %d, %v, %v", got, found, err)
	}
	if got != id {
		t.Errorf("ResolveID() = %d, want %d", got, id)
	}

	_, found, err = repo.ResolveID(ctx, model.Coordinates{X: 7, Y: 9})
	if err != nil {
		t.Fatalf("ResolveID() of unknown value errored: %v", err)
	}
	if found {
		t.Error("ResolveID() found a row for an unknown value")
	}
}

// Rows are not unique by value, so the lookup may land on any duplicate.
func TestCoordinates_ResolveIDWithDuplicates(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	repo := s.Coordinates()

	value := model.Coordinates{X: 11, Y: 12}
	first, err := repo.Insert(ctx, value)
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	second, err := repo.Insert(ctx, value)
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	if first == second {
		t.Fatalf("duplicate values shared id %d", first)
	}

	got, found, err := repo.ResolveID(ctx, value)
	if err != nil || !found {
		t.Fatalf("ResolveID() = %d, %v, %v", got, found, err)
	}
	if got != first && got != second {
		t.Errorf("ResolveID() = %d, want one of %d, %d", got, first, second)
	}
}

func TestCoordinates_InsideRolledBackTx(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	errAbort := errors.New("abort")
	err := s.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.Coordinates().Insert(ctx, model.Coordinates{X: 1, Y: 1}); err != nil {
			return err
		}
		return errAbort
	})
	if err != errAbort {
		t.Fatalf("WithTx() error = %v, want %v", err, errAbort)
	}

	n, err := s.Coordinates().Count(ctx)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d after rollback, want 0", n)
	}
}
