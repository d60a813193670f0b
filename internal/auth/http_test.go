// ABOUTME: Tests for HTTP authentication middleware
// ABOUTME: Covers status code mapping and principal injection into context

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func doRequest(t *testing.T, handler http.Handler, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRequireToken_ValidToken(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "pw", false, false)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	codec := NewCodec(authTestSecret)
	authz := NewAuthorizer(s, codec, testLogger())

	token, err := codec.MintUserToken(user.UUID, "desc", time.Hour)
	if err != nil {
		t.Fatalf("MintUserToken() error = %v", err)
	}

	var seen *Principal
	handler := authz.RequireToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = MustPrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := doRequest(t, handler, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if seen == nil || seen.User.Username != "alice" {
		t.Errorf("handler saw principal %+v, want alice", seen)
	}
}

func TestRequireToken_Failures(t *testing.T) {
	s := createTestStore(t)
	codec := NewCodec(authTestSecret)
	authz := NewAuthorizer(s, codec, testLogger())

	handler := authz.RequireToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	expired, err := codec.MintUserToken("some-uuid", "desc", -time.Minute)
	if err != nil {
		t.Fatalf("MintUserToken() error = %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{name: "missing token", header: "", wantStatus: http.StatusUnauthorized, wantMsg: "Token is missing !"},
		{name: "garbage token", header: "garbage", wantStatus: http.StatusBadRequest, wantMsg: "Token is invalid !"},
		{name: "expired token", header: expired, wantStatus: http.StatusBadRequest, wantMsg: "Token is invalid !"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, handler, tt.header)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decodeError(t, rec)
			if body.Status != "error" || body.Message != tt.wantMsg {
				t.Errorf("body = %+v, want error %q", body, tt.wantMsg)
			}
		})
	}
}

func TestRequireAdmin_StatusMapping(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	admin, err := s.CreateUser(ctx, "root", "pw", true, true)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	plain, err := s.CreateUser(ctx, "bob", "pw", false, false)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	codec := NewCodec(authTestSecret)
	issuer := NewIssuer(s, codec, testLogger())
	authz := NewAuthorizer(s, codec, testLogger())

	adminToken, err := codec.MintUserToken(admin.UUID, "desc", time.Hour)
	if err != nil {
		t.Fatalf("MintUserToken() error = %v", err)
	}
	plainToken, err := codec.MintUserToken(plain.UUID, "desc", time.Hour)
	if err != nil {
		t.Fatalf("MintUserToken() error = %v", err)
	}
	accessToken, err := issuer.IssueAccessToken(ctx, admin, "machine cred")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	handler := authz.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "admin user token", header: adminToken, wantStatus: http.StatusOK},
		{name: "non-admin user token", header: plainToken, wantStatus: http.StatusUnauthorized},
		{name: "access token of admin owner", header: accessToken, wantStatus: http.StatusForbidden},
		{name: "missing token", header: "", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "garbage", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, handler, tt.header)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestPrincipalFromContext_Empty(t *testing.T) {
	if p := PrincipalFromContext(context.Background()); p != nil {
		t.Errorf("PrincipalFromContext() = %+v, want nil", p)
	}
}
