// Package api is the generic access layer every admin screen goes through.
//
// # Overview
//
// Callers describe a request instead of building it: a Query (GET with
// structured Params), an ItemQuery (GET endpoint/id) or a Mutation
// (POST/PUT/DELETE with a Body and the cache Tags it invalidates). The
// Client turns descriptors into HTTP calls, so users, banks, bank accounts
// and withdrawals all share the same four operations.
//
// # Middleware
//
// Every call runs through a chain of Middleware composed when the Client is
// built, outermost first:
//
//	BusyTracking -> AuthGuard -> RequestID -> BearerAuth -> Logging -> transport
//
// BearerAuth attaches the session token, BusyTracking holds the request
// tracker around non-GET calls, and AuthGuard reacts to 401 by notifying the
// user, clearing the session and scheduling a reload.
//
// # Caching
//
// GET results are cached under their Tags. A successful Mutation marks every
// entry carrying one of its Invalidates tags stale; the next read fetches
// again and live Subscriptions are refreshed in the background. Entries
// without subscribers live in a bounded LRU; subscribed entries are never
// evicted.
//
// # Errors
//
// Every failure reaching a caller is an *Error carrying the HTTP status (0
// for network failures), the backend payload, and one of the sentinels
// ErrUnauthorized, ErrForbidden, ErrNotFound, ErrValidation, ErrServer or
// ErrUnavailable for errors.Is. Nothing is retried automatically.
package api
