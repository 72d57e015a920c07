package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it; tests
// use a stub.
type execIface interface {
	isLoggedIn() bool
	reloadRequested() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Users(ctx context.Context, args []string) error
	User(ctx context.Context, args []string) error
	UserStatus(ctx context.Context, args []string) error
	Banks(ctx context.Context, args []string) error
	Bank(ctx context.Context, args []string) error
	Accounts(ctx context.Context, args []string) error
	Withdraws(ctx context.Context, args []string) error
	Approve(ctx context.Context, args []string) error
	Reject(ctx context.Context, args []string) error
}

// protected lists the commands that need a session.
var protected = map[string]bool{
	"whoami":     true,
	"users":      true,
	"user":       true,
	"userstatus": true,
	"banks":      true,
	"bank":       true,
	"accounts":   true,
	"withdraws":  true,
	"approve":    true,
	"reject":     true,
}

// runREPL reads commands line by line and dispatches them to a. Before each
// prompt a pending reload sends the user back to the login form. The loop
// ends on EOF, "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if a.reloadRequested() {
			printlnFn("Please login again.")
			report(a.Login(ctx))
		}

		printlnFn(fmt.Sprintf("admin%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if protected[cmd] && !a.isLoggedIn() {
			printlnFn("Please login first.")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, users [page] [search], user <id>, userstatus <id> <status>, " +
					"banks [page], bank <id>, accounts [page] [bank_id], withdraws [page] [status], approve <id>, reject <id>, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}
		case "login":
			report(a.Login(ctx))
		case "logout":
			report(a.Logout(ctx))
		case "whoami":
			report(a.WhoAmI(ctx))
		case "users":
			report(a.Users(ctx, args))
		case "user":
			report(a.User(ctx, args))
		case "userstatus":
			report(a.UserStatus(ctx, args))
		case "banks":
			report(a.Banks(ctx, args))
		case "bank":
			report(a.Bank(ctx, args))
		case "accounts":
			report(a.Accounts(ctx, args))
		case "withdraws":
			report(a.Withdraws(ctx, args))
		case "approve":
			report(a.Approve(ctx, args))
		case "reject":
			report(a.Reject(ctx, args))
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
