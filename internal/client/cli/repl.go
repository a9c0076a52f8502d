package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App implements it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Exec(ctx context.Context, name string, args []string) error
	Help() string
}

// Help lists the commands valid in the current state.
func (a *App) Help() string {
	var b strings.Builder
	printHelp(&b, a.isLoggedIn())
	return strings.TrimRight(b.String(), "\n")
}

// runREPL reads commands from reader until EOF, "exit" or "quit". Commands
// that prompt read their answers from the same reader.
//
// Before login only register and login are accepted. Every other command
// goes to Exec; its error is printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("drc %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(a.Help())
		case "register":
			if err := a.Register(ctx); err != nil {
				printlnFn("Error:", err)
			}
		case "login":
			if err := a.Login(ctx); err != nil {
				printlnFn("Error:", err)
			}
		case "logout":
			_ = a.Logout(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			err := a.Exec(ctx, cmd, args)
			switch {
			case err == nil:
			case errors.Is(err, errUnknownCommand):
				printlnFn("Unknown command:", cmd)
			default:
				printlnFn("Error:", err)
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// Shell runs the interactive console on stdin until the user exits or ctx
// is cancelled. It asks for a login first.
func (a *App) Shell(ctx context.Context) {
	fmt.Fprintln(a.out, "drconsole shell (type 'help' for commands)")

	a.probe(ctx)
	if err := a.Login(ctx); err != nil {
		fmt.Fprintln(a.out, "Login failed:", err)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.status, a.reader)
}
