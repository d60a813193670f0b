// ABOUTME: Tests for the SQLite store covering users and access tokens
// ABOUTME: Uses temporary databases per test via t.TempDir

package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestStore_CreateUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "pw1", true, false)
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.UUID)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.Admin)
	assert.False(t, user.CanIssueTokens)

	// Password must be stored as a bcrypt hash, never plaintext
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw1")))
}

func TestStore_CreateUser_DuplicateUsername(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "alice", "pw1", false, false)
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "alice", "pw2", false, false)
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	// The failed insert must not change the user count
	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestStore_CreateUser_EmptyUsername(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.CreateUser(context.Background(), "", "pw", false, false)
	assert.Error(t, err)
}

func TestStore_CreateUser_UniqueUUIDs(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		user, err := s.CreateUser(ctx, fmt.Sprintf("user-%d", i), "pw", false, false)
		require.NoError(t, err)
		assert.False(t, seen[user.UUID], "uuid %s generated twice", user.UUID)
		seen[user.UUID] = true
	}
}

func TestStore_GetUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "bob", "pw", false, true)
	require.NoError(t, err)

	byUsername, err := s.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)
	assert.Equal(t, created.UUID, byUsername.UUID)
	assert.True(t, byUsername.CanIssueTokens)

	byUUID, err := s.GetUserByUUID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUUID.ID)

	byID, err := s.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", byID.Username)
}

func TestStore_GetUser_NotFound(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.GetUserByUsername(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.GetUserByUUID(ctx, "no-such-uuid")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.GetUserByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStore_ListUsers(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := s.CreateUser(ctx, name, "pw", false, false)
		require.NoError(t, err)
	}

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "carol", users[2].Username)
}

func TestStore_CreateAccessToken(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "pw", false, true)
	require.NoError(t, err)

	token := &AccessToken{
		UserID:      user.ID,
		Token:       "signed-token-string",
		Description: "ci deploy key",
	}
	require.NoError(t, s.CreateAccessToken(ctx, token))
	assert.NotZero(t, token.ID)

	got, err := s.GetAccessTokenByToken(ctx, "signed-token-string")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, "ci deploy key", got.Description)
}

func TestStore_CreateAccessToken_UnknownUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.CreateAccessToken(ctx, &AccessToken{
		UserID:      4242,
		Token:       "orphan-token",
		Description: "should fail",
	})
	assert.ErrorIs(t, err, ErrUnknownUser)

	_, err = s.GetAccessTokenByToken(ctx, "orphan-token")
	assert.ErrorIs(t, err, ErrAccessTokenNotFound)
}

func TestStore_CreateAccessToken_DuplicateToken(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "pw", false, true)
	require.NoError(t, err)

	first := &AccessToken{UserID: user.ID, Token: "same-string", Description: "one"}
	require.NoError(t, s.CreateAccessToken(ctx, first))

	second := &AccessToken{UserID: user.ID, Token: "same-string", Description: "two"}
	assert.ErrorIs(t, s.CreateAccessToken(ctx, second), ErrDuplicateToken)
}

func TestStore_ListAccessTokens(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "alice", "pw", false, true)
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, "bob", "pw", false, true)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		err := s.CreateAccessToken(ctx, &AccessToken{
			UserID:      alice.ID,
			Token:       fmt.Sprintf("alice-token-%d", i),
			Description: fmt.Sprintf("token %d", i),
		})
		require.NoError(t, err)
	}

	aliceTokens, err := s.ListAccessTokens(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, aliceTokens, 3)

	bobTokens, err := s.ListAccessTokens(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobTokens)
}

func TestStore_DeleteAccessToken(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "pw", false, true)
	require.NoError(t, err)

	token := &AccessToken{UserID: user.ID, Token: "revoke-me", Description: "temp"}
	require.NoError(t, s.CreateAccessToken(ctx, token))

	require.NoError(t, s.DeleteAccessToken(ctx, token.ID))

	_, err = s.GetAccessTokenByToken(ctx, "revoke-me")
	assert.ErrorIs(t, err, ErrAccessTokenNotFound)

	assert.ErrorIs(t, s.DeleteAccessToken(ctx, token.ID), ErrAccessTokenNotFound)
}

func TestStore_ConcurrentDuplicateCreateUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	const attempts = 8
	errCh := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := s.CreateUser(ctx, "race", "pw", false, false)
			errCh <- err
		}()
	}

	var successes int
	for i := 0; i < attempts; i++ {
		if err := <-errCh; err == nil {
			successes++
		}
	}

	// The unique constraint must allow exactly one creation through
	assert.Equal(t, 1, successes)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
