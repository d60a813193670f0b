// ABOUTME: Package documentation for the gateway orchestrator
// ABOUTME: Describes component wiring, routes and the server lifecycle

// Package gateway assembles the berth-gateway server: the SQLite credential
// store, the token codec and the auth services built on it, the container
// runtime client, and the HTTP API that ties them together.
//
// Routes:
//
//	POST /auth                      login, mints a user token
//	POST /register                  create a user (admin)
//	POST /token                     mint an access token (user principals)
//	GET  /api/v1/users              list users (admin)
//	GET  /api/v1/status             container status (authenticated)
//	GET  /api/v1/start/{name}       start a container (authenticated)
//	GET  /api/v1/stop/{name}        stop a container (authenticated)
//	GET  /api/v1/restart/{name}     restart a container (authenticated)
//	GET  /health                    liveness probe (no auth)
//
// Run serves until its context is canceled, then shuts down gracefully with
// a five second deadline.
package gateway
