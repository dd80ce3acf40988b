package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isConnected() bool
	Connect(ctx context.Context) error
	Sync(ctx context.Context) error
	Folders(ctx context.Context) error
	Events(ctx context.Context) error
	Agenda(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Status(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

// runREPL reads commands from scanner and dispatches them to a until EOF,
// "exit" or "quit".
//
//	help                 show available commands
//	connect              open a session (prompts for missing credentials)
//	sync                 pull calendar changes
//	folders              list cached folders, * marks the synced calendar
//	events               list cached events
//	agenda [days]        upcoming occurrences, recurring events expanded
//	export [file]        write cached events as iCalendar
//	status               show session and cache state
//	disconnect           close the session and clear the cache
//	exit | quit          leave the program
//
// Handler errors are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("vcal %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isConnected() {
				printlnFn("Available commands: sync, folders, events, agenda [days], export [file], status, disconnect, exit")
			} else {
				printlnFn("Available commands: connect, folders, events, agenda [days], export [file], status, exit")
			}

		case "connect":
			_ = a.Connect(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "folders":
			_ = a.Folders(ctx)

		case "l", "events":
			_ = a.Events(ctx)

		case "agenda":
			_ = a.Agenda(ctx, args)

		case "export":
			_ = a.Export(ctx, args)

		case "status":
			_ = a.Status(ctx)

		case "disconnect":
			_ = a.Disconnect(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if ctx.Err() != nil {
			return
		}
	}
}
