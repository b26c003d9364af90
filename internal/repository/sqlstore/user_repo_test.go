package sqlstore

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/repository"
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(role domain.Role) *domain.User {
	return &domain.User{
		Email:        domain.NormalizeEmail(gofakeit.Email()),
		PasswordHash: strPtr("hash"),
		Role:         role,
		FirstName:    gofakeit.FirstName(),
		LastName:     gofakeit.LastName(),
		IsActive:     true,
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()

	user := newUser(domain.RoleUser)
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)
	assert.True(t, byID.IsActive)

	byEmail, err := repo.GetByEmail(ctx, "  "+user.Email+" ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()

	first := newUser(domain.RoleUser)
	require.NoError(t, repo.Create(ctx, first))

	second := newUser(domain.RoleUser)
	second.Email = first.Email
	assert.ErrorIs(t, repo.Create(ctx, second), repository.ErrDuplicate)

	stored, err := repo.GetByEmail(ctx, first.Email)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, first.FirstName, stored.FirstName)
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()

	user := newUser(domain.RoleUser)
	require.NoError(t, repo.Create(ctx, user))
	other := newUser(domain.RoleUser)
	require.NoError(t, repo.Create(ctx, other))

	first := "Renamed"
	updated, err := repo.Update(ctx, user.ID, domain.UserPatch{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FirstName)
	assert.Equal(t, user.LastName, updated.LastName)

	taken := other.Email
	_, err = repo.Update(ctx, user.ID, domain.UserPatch{Email: &taken})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = repo.Update(ctx, uuid.NewString(), domain.UserPatch{FirstName: &first})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
