package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uh "github.com/userhub/userhub"
)

func newTestUser(email string) *uh.User {
	return &uh.User{
		Email:             email,
		Name:              "Ada",
		PasswordHash:      "$2a$10$notarealhash",
		AvatarURL:         "https://www.gravatar.com/avatar/abc?d=retro",
		VerificationToken: "token-for-" + email,
	}
}

func TestCreateAndLookup(t *testing.T) {
	t.Parallel()
	store := NewUserStore(t.TempDir())
	ctx := context.Background()

	user := newTestUser("ada@example.com")
	require.NoError(t, store.Create(ctx, user))
	require.NotEmpty(t, user.ID, "Create must assign an id")

	byID, err := store.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	byEmail, err := store.ByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byToken, err := store.ByVerificationToken(ctx, user.VerificationToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byToken.ID)
}

func TestCreateDuplicateEmail(t *testing.T) {
	t.Parallel()
	store := NewUserStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTestUser("ada@example.com")))

	err := store.Create(ctx, newTestUser("ada@example.com"))
	assert.ErrorIs(t, err, uh.ErrEmailTaken)
}

func TestLookupMisses(t *testing.T) {
	t.Parallel()
	store := NewUserStore(t.TempDir())
	ctx := context.Background()

	_, err := store.ByID(ctx, "nope")
	assert.ErrorIs(t, err, uh.ErrUserNotFound)

	_, err = store.ByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, uh.ErrUserNotFound)

	_, err = store.ByVerificationToken(ctx, "nope")
	assert.ErrorIs(t, err, uh.ErrUserNotFound)

	// An empty token never matches, even against verified users whose
	// token field is empty.
	_, err = store.ByVerificationToken(ctx, "")
	assert.ErrorIs(t, err, uh.ErrUserNotFound)
}

func TestSetSessionToken(t *testing.T) {
	t.Parallel()
	store := NewUserStore(t.TempDir())
	ctx := context.Background()

	user := newTestUser("ada@example.com")
	require.NoError(t, store.Create(ctx, user))

	require.NoError(t, store.SetSessionToken(ctx, user.ID, "session-token"))
	got, err := store.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "session-token", got.SessionToken)

	require.NoError(t, store.SetSessionToken(ctx, user.ID, ""))
	got, err = store.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.SessionToken)

	assert.ErrorIs(t, store.SetSessionToken(ctx, "nope", "x"), uh.ErrUserNotFound)
}

func TestMarkVerified(t *testing.T) {
	t.Parallel()
	store := NewUserStore(t.TempDir())
	ctx := context.Background()

	user := newTestUser("ada@example.com")
	require.NoError(t, store.Create(ctx, user))

	require.NoError(t, store.MarkVerified(ctx, user.ID))

	got, err := store.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)
	assert.Empty(t, got.VerificationToken)

	_, err = store.ByVerificationToken(ctx, "token-for-ada@example.com")
	assert.ErrorIs(t, err, uh.ErrUserNotFound)
}

func TestSetAvatarURL(t *testing.T) {
	t.Parallel()
	store := NewUserStore(t.TempDir())
	ctx := context.Background()

	user := newTestUser("ada@example.com")
	require.NoError(t, store.Create(ctx, user))

	require.NoError(t, store.SetAvatarURL(ctx, user.ID, "/avatars/"+user.ID+".png"))
	got, err := store.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "/avatars/"+user.ID+".png", got.AvatarURL)
}
