// ABOUTME: Tests for access token issuance and its permission gate
// ABOUTME: Verifies persistence, defaults, and that denial creates no rows

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestIssuer_IssueAccessToken(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "pw", false, true)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	codec := NewCodec(authTestSecret)
	issuer := NewIssuer(s, codec, testLogger())

	token, err := issuer.IssueAccessToken(ctx, user, "ci deploy key")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Kind != KindAccessToken {
		t.Errorf("Kind = %q, want %q", claims.Kind, KindAccessToken)
	}
	if claims.ExpiresAt != nil {
		t.Error("access token must not expire")
	}
	if claims.UUID != user.UUID {
		t.Errorf("token subject = %q, want owner uuid %q", claims.UUID, user.UUID)
	}

	// Row must be persisted and bound to the owner
	row, err := s.GetAccessTokenByToken(ctx, token)
	if err != nil {
		t.Fatalf("GetAccessTokenByToken() error = %v", err)
	}
	if row.UserID != user.ID {
		t.Errorf("row.UserID = %d, want %d", row.UserID, user.ID)
	}
	if row.Description != "ci deploy key" {
		t.Errorf("row.Description = %q, want %q", row.Description, "ci deploy key")
	}
}

func TestIssuer_GeneratedDescription(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "pw", false, true)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	issuer := NewIssuer(s, NewCodec(authTestSecret), testLogger())

	token, err := issuer.IssueAccessToken(ctx, user, "")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	row, err := s.GetAccessTokenByToken(ctx, token)
	if err != nil {
		t.Fatalf("GetAccessTokenByToken() error = %v", err)
	}
	if !strings.HasPrefix(row.Description, "Random: ") {
		t.Errorf("Description = %q, want generated 'Random: ' label", row.Description)
	}
}

func TestIssuer_PermissionDenied(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "pw", false, false)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	issuer := NewIssuer(s, NewCodec(authTestSecret), testLogger())

	_, err = issuer.IssueAccessToken(ctx, user, "nope")
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("IssueAccessToken() error = %v, want ErrPermissionDenied", err)
	}

	// Denial must not leave a row behind
	tokens, err := s.ListAccessTokens(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListAccessTokens() error = %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("got %d access tokens after denial, want 0", len(tokens))
	}
}

func TestIssuer_AdminWithoutFlagDenied(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// The admin flag alone does not grant token issuance
	admin, err := s.CreateUser(ctx, "root", "pw", true, false)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	issuer := NewIssuer(s, NewCodec(authTestSecret), testLogger())

	if _, err := issuer.IssueAccessToken(ctx, admin, ""); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("IssueAccessToken() error = %v, want ErrPermissionDenied", err)
	}
}
