package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	clearError()

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	OAuth(ctx context.Context, provider string) error
	Search(ctx context.Context, query string) error
	Show(ctx context.Context, id string) error
	Reviews(ctx context.Context, id string) error
	Stats(ctx context.Context) error

	WhoAmI(ctx context.Context) error
	Status(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Matches(ctx context.Context, refresh bool) error
	Review(ctx context.Context, id string) error
	Logout(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: help, register, login, oauth <provider>, search [query], show <id>, reviews <id>, stats, exit"
	helpSignedIn  = "Available commands: help, whoami, status, profile, profile edit, dashboard, matches [refresh], " +
		"search [query], show <id>, reviews <id>, review <id>, stats, logout, exit"
)

// signedInOnly lists the commands that need an authenticated session.
var signedInOnly = map[string]bool{
	"whoami":    true,
	"status":    true,
	"profile":   true,
	"dashboard": true,
	"matches":   true,
	"review":    true,
	"logout":    true,
}

// signedOutOnly lists the commands that would replace the current session.
var signedOutOnly = map[string]bool{
	"register": true,
	"login":    true,
	"oauth":    true,
}

// runREPL starts a simple read–eval–print loop for the ScholarScout CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Every new command first clears a previous
// login or registration error. Commands that need a session are refused
// while signed out, and sign-in commands while signed in. Errors returned
// by handlers are printed and the loop continues. The loop exits on EOF
// or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help                 show available commands
//	  - search [query]       search scholarships
//	  - show <id>            show a scholarship
//	  - reviews <id>         list reviews of a scholarship
//	  - stats                platform statistics
//	  - exit | quit          leave the program
//
//	Signed out:
//	  - register             create an account and sign in
//	  - login                sign in with email and password
//	  - oauth <provider>     sign in with an OAuth provider
//
//	Signed in:
//	  - whoami, status       account and session details
//	  - profile [edit]       show or edit the scholarship profile
//	  - dashboard            profile summary and top matches
//	  - matches [refresh]    matched scholarships (complete profile required)
//	  - review <id>          write a review
//	  - logout               sign out
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("scholarscout %s> ", statusFn()))

		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			printlnFn("Error:", readErr.Error())
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		a.clearError()

		if signedInOnly[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first (login, register or oauth <provider>).")
			if readErr != nil {
				return
			}
			continue
		}
		if signedOutOnly[cmd] && a.isLoggedIn() {
			printlnFn("Already signed in; logout first.")
			if readErr != nil {
				return
			}
			continue
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "oauth":
			if len(args) == 0 {
				printlnFn("Usage: oauth <provider>")
				break
			}
			err = a.OAuth(ctx, args[0])

		case "search":
			err = a.Search(ctx, strings.Join(args, " "))

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				break
			}
			err = a.Show(ctx, args[0])

		case "reviews":
			if len(args) == 0 {
				printlnFn("Usage: reviews <id>")
				break
			}
			err = a.Reviews(ctx, args[0])

		case "stats":
			err = a.Stats(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "status":
			err = a.Status(ctx)

		case "profile":
			if len(args) > 0 && args[0] == "edit" {
				err = a.EditProfile(ctx)
			} else {
				err = a.Profile(ctx)
			}

		case "dashboard":
			err = a.Dashboard(ctx)

		case "matches":
			err = a.Matches(ctx, len(args) > 0 && args[0] == "refresh")

		case "review":
			if len(args) == 0 {
				printlnFn("Usage: review <id>")
				break
			}
			err = a.Review(ctx, args[0])

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
		if readErr != nil {
			return
		}
	}
}
