// Package session holds the authenticated admin session: the bearer token and
// the user record returned by the login endpoint.
//
// A Store is constructed explicitly and passed to whoever needs it (the API
// client middleware, services, the CLI). Token and user are always updated
// together: SetCredentials sets both, Logout clears both. Every change is
// written through a Persister so the session survives restarts; Restore
// rehydrates it once at startup.
//
// Reads (Token, User, IsAuthenticated, ExpiresAt) never fail. Persistence
// errors are logged and do not affect the in-memory state.
package session
