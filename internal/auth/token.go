// ABOUTME: JWT token codec for berth-gateway bearer tokens
// ABOUTME: Uses HS256 signing with a configurable secret and typed claims

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: malformed structure,
// bad signature, expired timestamp, or any other decode error. Expired and
// malformed tokens are deliberately not distinguished at this boundary.
var ErrInvalidToken = errors.New("invalid token")

// TokenKind discriminates the two credential classes carried in claims.
type TokenKind string

const (
	// KindUserToken is a short-lived credential proving a human login session.
	KindUserToken TokenKind = "user_token"

	// KindAccessToken is a non-expiring credential bound to one user,
	// used for machine/application access.
	KindAccessToken TokenKind = "access_token"
)

// Claims is the decoded payload of a bearer token. Kind determines the claim
// shape: user tokens always carry an expiry, access tokens never do.
type Claims struct {
	UUID        string    `json:"uuid"`
	Description string    `json:"description"`
	Kind        TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// Codec produces and consumes signed token strings. It is stateless and a
// pure function of its secret, safe for unlimited concurrent use.
type Codec struct {
	secret []byte
}

// NewCodec creates a token codec with the given signing secret
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// MintUserToken signs a user_token claim set expiring ttl from now.
func (c *Codec) MintUserToken(userUUID, description string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UUID:        userUUID,
		Description: description,
		Kind:        KindUserToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// MintAccessToken signs an access_token claim set with no expiry.
func (c *Codec) MintAccessToken(userUUID, description string) (string, error) {
	claims := &Claims{
		UUID:        userUUID,
		Description: description,
		Kind:        KindAccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify validates the signature and, when an expiry claim is present, the
// expiry of a token string, returning its claims. It also enforces the
// kind/expiry invariant for the two known kinds; unknown kinds are returned
// to the caller to reject.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UUID == "" {
		return nil, fmt.Errorf("%w: missing uuid claim", ErrInvalidToken)
	}

	// Kind determines claim shape: user tokens always expire, access tokens never do
	switch claims.Kind {
	case KindUserToken:
		if claims.ExpiresAt == nil {
			return nil, fmt.Errorf("%w: user token without expiry", ErrInvalidToken)
		}
	case KindAccessToken:
		if claims.ExpiresAt != nil {
			return nil, fmt.Errorf("%w: access token with expiry", ErrInvalidToken)
		}
	}

	return claims, nil
}
