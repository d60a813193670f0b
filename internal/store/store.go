// ABOUTME: Store interface and data types for berth-gateway persistence
// ABOUTME: Defines User, AccessToken structs and the Store interface for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned when a requested user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateUsername is returned when creating a user whose username is taken.
var ErrDuplicateUsername = errors.New("username already exists")

// ErrUnknownUser is returned when creating an access token for a user that does not exist.
var ErrUnknownUser = errors.New("unknown user")

// ErrAccessTokenNotFound is returned when a requested access token does not exist.
var ErrAccessTokenNotFound = errors.New("access token not found")

// ErrDuplicateToken is returned when persisting an access token whose signed string already exists.
var ErrDuplicateToken = errors.New("token already exists")

// User represents an identity record. The password is stored only as a
// bcrypt hash; UUID is the public identifier carried inside tokens and is
// immutable after creation.
type User struct {
	ID             int64
	UUID           string
	Username       string
	PasswordHash   string
	Admin          bool
	CanIssueTokens bool
	CreatedAt      time.Time
}

// AccessToken is a durable, non-expiring credential bound to exactly one user.
// The signed token string is never regenerated in place; a new row is created
// instead.
type AccessToken struct {
	ID          int64
	UserID      int64
	Token       string
	Description string
	CreatedAt   time.Time
}

// Store defines the interface for user and access token persistence
type Store interface {
	// Users
	CreateUser(ctx context.Context, username, password string, admin, canIssueTokens bool) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByUUID(ctx context.Context, uuid string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)

	// Access tokens
	CreateAccessToken(ctx context.Context, token *AccessToken) error
	GetAccessTokenByToken(ctx context.Context, token string) (*AccessToken, error)
	ListAccessTokens(ctx context.Context, userID int64) ([]*AccessToken, error)
	DeleteAccessToken(ctx context.Context, id int64) error

	// Close releases any resources held by the store
	Close() error
}
