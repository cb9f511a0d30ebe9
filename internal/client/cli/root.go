package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	if !a.isLoggedIn() || a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// Root prints the banner and runs the REPL on the app's input.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintf(a.out, "Welcome to stockkeeper CLI, server %s (type 'help' for commands)\n", a.config.ServerURL)
	runREPL(ctx, a, a.getStatus, a.reader)
}
