// ABOUTME: Access token issuance gated on the acting user's create-token flag
// ABOUTME: Mints non-expiring access tokens and persists them through the store

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/berthd/berth-gateway/internal/store"
)

// ErrPermissionDenied is returned when the acting user lacks the permission
// an operation requires.
var ErrPermissionDenied = errors.New("permission denied")

// Issuer mints durable access tokens for users allowed to create them.
type Issuer struct {
	store  store.Store
	codec  *Codec
	logger *slog.Logger
}

// NewIssuer creates an access token issuer over the given store and codec.
func NewIssuer(st store.Store, codec *Codec, logger *slog.Logger) *Issuer {
	return &Issuer{
		store:  st,
		codec:  codec,
		logger: logger.With("component", "issuer"),
	}
}

// IssueAccessToken mints a non-expiring access token bound to the acting
// user's identity and persists it. Requires actor.CanIssueTokens; fails with
// ErrPermissionDenied otherwise. An empty description gets a generated label.
func (i *Issuer) IssueAccessToken(ctx context.Context, actor *store.User, description string) (string, error) {
	if !actor.CanIssueTokens {
		return "", ErrPermissionDenied
	}

	if description == "" {
		description = "Random: " + uuid.New().String()
	}

	token, err := i.codec.MintAccessToken(actor.UUID, description)
	if err != nil {
		return "", fmt.Errorf("minting access token: %w", err)
	}

	if err := i.store.CreateAccessToken(ctx, &store.AccessToken{
		UserID:      actor.ID,
		Token:       token,
		Description: description,
	}); err != nil {
		return "", fmt.Errorf("persisting access token: %w", err)
	}

	i.logger.Info("issued access token", "username", actor.Username, "description", description)
	return token, nil
}
