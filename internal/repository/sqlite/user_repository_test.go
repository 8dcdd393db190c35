package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickslot-api/internal/domain"
	"quickslot-api/internal/repository"
)

func newTestRepo(t *testing.T) repository.UserRepository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func testUser(email string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: "pbkdf2_sha256$1000$aa$bb",
		Name:           "Test User",
		PhoneNumber:    "555-0100",
		IsActive:       true,
		LastLoginAt:    &now,
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := testUser("a@x.com")
	require.NoError(t, repo.Create(ctx, user))
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, user.HashedPassword, byEmail.HashedPassword)
	assert.True(t, byEmail.IsActive)
	require.NotNil(t, byEmail.LastLoginAt)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
}

func TestDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("a@x.com")))

	err := repo.Create(ctx, testUser("a@x.com"))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestGetNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "nouser@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := testUser("a@x.com")
	require.NoError(t, repo.Create(ctx, user))

	user.Name = "Renamed"
	user.IsActive = false
	user.ProfileImageURL = "quickslot/avatars/" + user.ID
	require.NoError(t, repo.Update(ctx, user))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Name)
	assert.False(t, stored.IsActive)
	assert.Equal(t, "quickslot/avatars/"+user.ID, stored.ProfileImageURL)
}

func TestUpdateMissingUser(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Update(context.Background(), testUser("ghost@x.com"))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestNullLastLogin(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := testUser("a@x.com")
	user.LastLoginAt = nil
	require.NoError(t, repo.Create(ctx, user))

	stored, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, stored.LastLoginAt)
}
