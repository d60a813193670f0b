// ABOUTME: Request authorization resolving raw Authorization headers to principals
// ABOUTME: Implements the token-guarded and admin-guarded verification paths

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/berthd/berth-gateway/internal/store"
)

// ErrMissingToken is returned when no token is present in the header.
var ErrMissingToken = errors.New("token is missing")

// ErrUnknownTokenType is returned when a token carries an unrecognized kind.
var ErrUnknownTokenType = errors.New("unknown token type")

// ErrWrongTokenKind is returned when an access token is presented where an
// admin check is required. Access tokens are lower-privilege machine
// credentials and never satisfy admin checks, regardless of their owner.
var ErrWrongTokenKind = errors.New("wrong token kind")

// Authorizer verifies bearer tokens and resolves them to acting principals.
// Every request is verified independently; no state persists across requests.
type Authorizer struct {
	store  store.Store
	codec  *Codec
	logger *slog.Logger
}

// NewAuthorizer creates an authorizer over the given store and codec.
func NewAuthorizer(st store.Store, codec *Codec, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		store:  st,
		codec:  codec,
		logger: logger.With("component", "authorizer"),
	}
}

// extractToken pulls the raw token out of an Authorization header value.
// Some upstream clients append a literal " undefined" artifact to the header;
// anything from that marker on is discarded. A conventional "Bearer " prefix
// is accepted but not required.
func extractToken(header string) string {
	token, _, _ := strings.Cut(header, " undefined")
	token = strings.TrimSpace(token)
	token = strings.TrimPrefix(token, "Bearer ")
	return strings.TrimSpace(token)
}

// Authenticate resolves a raw Authorization header to an acting principal.
// Access-token credentials resolve to the owning user's identity; the
// presented token string must still exist in the store, so deleting the row
// revokes the credential. Fails with ErrMissingToken, ErrInvalidToken or
// ErrUnknownTokenType.
func (a *Authorizer) Authenticate(ctx context.Context, header string) (*Principal, error) {
	token := extractToken(header)
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := a.codec.Verify(token)
	if err != nil {
		return nil, err
	}

	switch claims.Kind {
	case KindAccessToken:
		row, err := a.store.GetAccessTokenByToken(ctx, token)
		if err != nil {
			if errors.Is(err, store.ErrAccessTokenNotFound) {
				return nil, ErrInvalidToken
			}
			return nil, fmt.Errorf("resolving access token: %w", err)
		}

		owner, err := a.store.GetUserByID(ctx, row.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return nil, ErrInvalidToken
			}
			return nil, fmt.Errorf("resolving token owner: %w", err)
		}

		return &Principal{Kind: PrincipalAccessToken, User: owner}, nil

	case KindUserToken:
		user, err := a.store.GetUserByUUID(ctx, claims.UUID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return nil, ErrInvalidToken
			}
			return nil, fmt.Errorf("resolving user: %w", err)
		}

		return &Principal{Kind: PrincipalUser, User: user}, nil

	default:
		return nil, ErrUnknownTokenType
	}
}

// AuthorizeAdmin resolves a raw Authorization header to a user holding the
// admin permission. Access-token credentials are rejected outright with
// ErrWrongTokenKind before the owner's flags are ever consulted; user tokens
// additionally require the admin flag, failing with ErrPermissionDenied.
func (a *Authorizer) AuthorizeAdmin(ctx context.Context, header string) (*store.User, error) {
	token := extractToken(header)
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := a.codec.Verify(token)
	if err != nil {
		return nil, err
	}

	switch claims.Kind {
	case KindAccessToken:
		return nil, ErrWrongTokenKind

	case KindUserToken:
		user, err := a.store.GetUserByUUID(ctx, claims.UUID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return nil, ErrInvalidToken
			}
			return nil, fmt.Errorf("resolving user: %w", err)
		}

		if !user.Admin {
			a.logger.Warn("admin route denied", "username", user.Username)
			return nil, ErrPermissionDenied
		}

		return user, nil

	default:
		return nil, ErrUnknownTokenType
	}
}
