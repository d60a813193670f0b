// ABOUTME: Username/password authentication minting short-lived user tokens
// ABOUTME: Uses bcrypt with dummy-hash comparison to keep login timing constant

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/berthd/berth-gateway/internal/store"
)

// ErrUserNotFound is returned when the login username does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrBadPassword is returned when the password does not match the stored hash.
var ErrBadPassword = errors.New("invalid password")

// UserTokenTTL is the lifetime of a minted user session token.
const UserTokenTTL = 45 * time.Minute

// userTokenDescription is the fixed description carried by session tokens.
const userTokenDescription = "This is a user token"

// Authenticator verifies credentials against the store and mints user tokens.
// Sessions are stateless: there is no server-side session record, and a token
// cannot be revoked before its natural expiry.
type Authenticator struct {
	store  store.Store
	codec  *Codec
	logger *slog.Logger
}

// NewAuthenticator creates an authenticator over the given store and codec.
func NewAuthenticator(st store.Store, codec *Codec, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		store:  st,
		codec:  codec,
		logger: logger.With("component", "auth"),
	}
}

// Login verifies a username/password pair and returns a signed user token
// with a 45 minute expiry. Fails with ErrUserNotFound or ErrBadPassword.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, error) {
	// Dummy hash for timing-safe comparison when the user doesn't exist.
	// This prevents timing attacks that could enumerate valid usernames.
	dummyHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

	user, err := a.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrBadPassword
	}

	token, err := a.codec.MintUserToken(user.UUID, userTokenDescription, UserTokenTTL)
	if err != nil {
		return "", fmt.Errorf("minting user token: %w", err)
	}

	a.logger.Info("user login", "username", username)
	return token, nil
}
