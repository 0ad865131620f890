package repository

import (
	"context"
	"testing"

	"wavebox/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	first := &model.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x", Role: model.RoleUser, IsActive: true}
	require.NoError(t, repo.Create(first))

	second := &model.User{Name: "Imposter", Email: "alice@example.com", PasswordHash: "y", Role: model.RoleUser, IsActive: true}
	assert.ErrorIs(t, repo.Create(second), ErrDuplicate)
}

func TestUserGetByEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByEmail("missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	user := seedUser(t, db, "bob@example.com")
	found, err := repo.GetByEmail("bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestUserUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "carol@example.com")
	user.Name = "Caroline"
	require.NoError(t, repo.Update(ctx, user))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caroline", stored.Name)
}
