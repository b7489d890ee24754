package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/personvault/internal/model"
)

func TestLocation_CRUD(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	repo := s.Locations()

	loc := model.Location{X: 1.25, Y: 2, Z: 3, Name: "Harbor"}
	id, err := repo.Insert(ctx, loc)
	require.NoError(t, err)

	got, found, err := repo.Read(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	loc.ID = id
	assert.Equal(t, loc, got)

	ok, err := repo.Update(ctx, model.Location{X: -4.5, Y: 5, Z: 6, Name: "Hill"}, id)
	require.NoError(t, err)
	assert.True(t, ok)

	got, _, err = repo.Read(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.Location{ID: id, X: -4.5, Y: 5, Z: 6, Name: "Hill"}, got)

	resolved, found, err := repo.ResolveID(ctx, model.Location{X: -4.5, Y: 5, Z: 6, Name: "Hill"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, resolved)

	ok, err = repo.Remove(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	_, found, err = repo.Read(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLocation_ResolveIDMissing(t *testing.T) {
	s := createTestStore(t)

	_, found, err := s.Locations().ResolveID(context.Background(), model.Location{Name: "Nowhere"})
	require.NoError(t, err)
	assert.False(t, found)
}
