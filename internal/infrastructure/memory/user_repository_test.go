package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwikya/authd/internal/domain/repository"
)

func TestCreateAndLookups(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u, err := repo.Create(ctx, "a@x.com", "digest")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Nil(t, u.SessionToken)
	assert.Nil(t, u.ResetToken)

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetBySessionToken(ctx, "tok")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByResetToken(ctx, "tok")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTokenWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u, err := repo.Create(ctx, "a@x.com", "digest")
	require.NoError(t, err)

	session := "session-token"
	require.NoError(t, repo.SetSessionToken(ctx, u.ID, &session))
	got, err := repo.GetBySessionToken(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, repo.SetSessionToken(ctx, u.ID, nil))
	_, err = repo.GetBySessionToken(ctx, session)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, repo.SetSessionToken(ctx, "no-such-id", &session), repository.ErrNotFound)
}

func TestReplacePasswordClearsResetToken(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u, err := repo.Create(ctx, "a@x.com", "old-digest")
	require.NoError(t, err)

	reset := "reset-token"
	require.NoError(t, repo.SetResetToken(ctx, u.ID, &reset))

	require.NoError(t, repo.ReplacePassword(ctx, u.ID, "new-digest"))

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "new-digest", got.HashedPassword)
	assert.Nil(t, got.ResetToken, "reset token cleared with the password change")
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u, err := repo.Create(ctx, "a@x.com", "digest")
	require.NoError(t, err)

	u.Email = "tampered@x.com"
	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
}
