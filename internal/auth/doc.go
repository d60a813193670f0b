// Package auth provides authentication and authorization for berth-gateway.
//
// # Token Model
//
// Two credential classes exist, both HS256-signed JWTs sharing one
// process-wide secret:
//
//   - User tokens: minted by Login after a bcrypt password check, expire
//     45 minutes after issue. Sessions are stateless; a user token cannot be
//     revoked before its natural expiry.
//
//   - Access tokens: minted by the Issuer for users holding the
//     CanIssueTokens flag, never expire, and are persisted so that deleting
//     the row revokes the credential.
//
// # Verification
//
// The Codec collapses every verification failure, expired and malformed
// alike, into ErrInvalidToken. Clients were never expected to distinguish
// the two.
//
// # Authorization Paths
//
// The Authorizer exposes two contracts over the raw Authorization header:
//
//	Authenticate(ctx, header)  // any valid token -> Principal
//	AuthorizeAdmin(ctx, header) // user tokens with the admin flag only
//
// An access-token bearer resolves to its owning user's full identity for
// Authenticate-guarded routes, but AuthorizeAdmin rejects the kind outright,
// even when the owner holds the admin flag. This asymmetry is intentional.
//
// # HTTP Middleware
//
// RequireToken and RequireAdmin adapt the two contracts to net/http,
// attaching the resolved Principal to the request context
// (PrincipalFromContext) and mapping failures to status codes:
// missing token 401, invalid or expired token 400, wrong kind on an admin
// route 403, missing admin flag 401.
package auth
