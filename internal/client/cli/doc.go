// Package cli provides the interactive bank administration console.
//
// It wires configuration, the persisted session, the request tracker, the
// cached API client and the resource services, then runs a REPL. The prompt
// shows the signed-in administrator and a '*' while a write is in flight.
//
// Commands
//
//	login, logout, whoami
//	users [page] [search], user <id>, userstatus <id> <status>
//	banks [page], bank <id>
//	accounts [page] [bank_id]
//	withdraws [page] [status], approve <id>, reject <id>
//	help, exit
//
// Resource commands require a session. When the backend rejects the token
// the console prints "Session Expired. Please login again" and returns to
// the login prompt shortly afterwards.
package cli
