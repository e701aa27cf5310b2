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
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Me(ctx context.Context) error
	Validate(ctx context.Context) error
	Refresh(ctx context.Context) error
	Status(ctx context.Context) error
	Check(ctx context.Context, kind, value string) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the auth CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the session state (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                                  show available commands
//	  - register                              create an account
//	  - login                                 authenticate
//	  - check <username|phone|email> <value>  ask whether a value is free
//	  - exit | quit                           leave the program
//
//	Logged in, additionally:
//	  - me                                    show the current user
//	  - validate                              ask the server whether the token is valid
//	  - refresh                               renew the token now
//	  - status                                show the stored token state
//	  - logout                                forget the stored token
//
// Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("auth %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: me, validate, refresh, status, check, logout, exit")
			} else {
				printlnFn("Available commands: register, login, check, status, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "me":
			cmdErr = a.Me(ctx)

		case "validate":
			cmdErr = a.Validate(ctx)

		case "refresh":
			cmdErr = a.Refresh(ctx)

		case "status":
			cmdErr = a.Status(ctx)

		case "check":
			if len(args) != 2 {
				printlnFn("Usage: check <username|phone|email> <value>")
				continue
			}
			cmdErr = a.Check(ctx, args[0], args[1])

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}
	}
}
