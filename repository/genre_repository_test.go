package repository

import (
	"context"
	"testing"

	"wavebox/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreCreateDuplicateName(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenreRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Genre{Name: "Rock", IsActive: true}))

	err := repo.Create(ctx, &model.Genre{Name: "rock", IsActive: true})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGenreUpdateDuplicateName(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenreRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Genre{Name: "Rock", IsActive: true}))
	jazz := &model.Genre{Name: "Jazz", IsActive: true}
	require.NoError(t, repo.Create(ctx, jazz))

	jazz.Name = "Rock"
	assert.ErrorIs(t, repo.Update(ctx, jazz), ErrDuplicate)

	// Saving under its own name is not a conflict.
	jazz.Name = "Jazz"
	jazz.Description = "updated"
	assert.NoError(t, repo.Update(ctx, jazz))
}

func TestGenreListSearchAndOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenreRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Synthwave", "Rock", "Post-Rock"} {
		require.NoError(t, repo.Create(ctx, &model.Genre{Name: name, IsActive: true}))
	}

	genres, total, err := repo.List(ctx, "rock", Page{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, genres, 2)
	assert.Equal(t, "Post-Rock", genres[0].Name)
	assert.Equal(t, "Rock", genres[1].Name)
}

func TestGenreSoftDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenreRepository(db)
	ctx := context.Background()

	genre := &model.Genre{Name: "Ambient", IsActive: true}
	require.NoError(t, repo.Create(ctx, genre))

	require.NoError(t, repo.SoftDelete(ctx, genre.ID))

	// Deleted genres drop out of listings but the row survives.
	genres, total, err := repo.List(ctx, "", Page{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, genres)

	stored, err := repo.GetByID(ctx, genre.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	// Deleting again reports not found.
	assert.ErrorIs(t, repo.SoftDelete(ctx, genre.ID), ErrNotFound)
}

func TestGenreGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenreRepository(db)

	_, err := repo.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenreListPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewGenreRepository(db)
	ctx := context.Background()

	names := []string{"A", "B", "C", "D", "E"}
	for _, name := range names {
		require.NoError(t, repo.Create(ctx, &model.Genre{Name: name, IsActive: true}))
	}

	genres, total, err := repo.List(ctx, "", Page{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, genres, 2)
	assert.Equal(t, "C", genres[0].Name)
	assert.Equal(t, "D", genres[1].Name)
}
