// Package store provides persistence for berth-gateway identities and
// access tokens.
//
// # Overview
//
// The package defines the Store interface and a SQLite implementation
// (SQLiteStore) backed by modernc.org/sqlite. The schema is created
// automatically on open; WAL mode and foreign keys are enabled.
//
// # Data Model
//
// Users are identity records:
//
//   - ID: numeric surrogate key assigned by the database
//   - UUID: public identifier carried inside bearer tokens, unique and immutable
//   - Username: unique, non-empty
//   - PasswordHash: bcrypt hash, never plaintext
//   - Admin: grants admin-level route access
//   - CanIssueTokens: grants the right to mint access tokens
//
// Access tokens are durable, non-expiring credentials bound to exactly one
// user. The signed token string is unique; deleting the row revokes the
// credential.
//
// # Invariants
//
// Uniqueness of usernames and token strings is enforced by database
// constraints, not application-level locking: concurrent CreateUser calls
// with the same username resolve to exactly one success, the rest failing
// with ErrDuplicateUsername.
//
// Password hashing happens inside CreateUser. Callers never handle hashes,
// and external representations never include them.
//
// # Usage
//
//	s, err := store.NewSQLiteStore("/var/lib/berth/gateway.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	user, err := s.CreateUser(ctx, "alice", "pw1", false, true)
package store
