package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/stockkeeper/internal/client/api"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	List(ctx context.Context) error
	LowStock(ctx context.Context) error
	Add(ctx context.Context) error
	StockIn(ctx context.Context) error
	StockOut(ctx context.Context) error
	History(ctx context.Context, item string) error
	Stats(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Export(ctx context.Context) error
	Archive(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: (l)ist, low, add, in, out, history [item], stats, whoami, export, archive, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the stockkeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Command prompts read from the same reader,
// so there is exactly one buffer over the input. The loop exits on EOF or
// when the user types "exit" or "quit".
//
// Commands other than help, register, login and exit require a login.
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("sk%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "register":
			report(a.Register(ctx))
			continue
		case "login":
			report(a.Login(ctx))
			continue
		}

		if !isCommand(cmd) {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if !a.isLoggedIn() {
			printlnFn("Please log in first")
			continue
		}

		switch cmd {
		case "l", "list":
			report(a.List(ctx))
		case "low":
			report(a.LowStock(ctx))
		case "add":
			report(a.Add(ctx))
		case "in":
			report(a.StockIn(ctx))
		case "out":
			report(a.StockOut(ctx))
		case "history":
			report(a.History(ctx, strings.Join(args, " ")))
		case "stats":
			report(a.Stats(ctx))
		case "whoami":
			report(a.WhoAmI(ctx))
		case "export":
			report(a.Export(ctx))
		case "archive":
			report(a.Archive(ctx))
		case "logout":
			report(a.Logout(ctx))
		}
	}
}

func isCommand(cmd string) bool {
	switch cmd {
	case "l", "list", "low", "add", "in", "out", "history", "stats", "whoami", "export", "archive", "logout":
		return true
	}
	return false
}

func report(err error) {
	if err != nil {
		printlnFn(describeError(err))
	}
}

// describeError turns a command error into a line for the user.
func describeError(err error) string {
	var apiErr *api.APIError
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return "Not authorized, please log in again"
	case errors.Is(err, api.ErrUnavailable):
		return "Server unavailable, try again later"
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	default:
		return "Error: " + err.Error()
	}
}
