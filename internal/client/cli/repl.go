package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// access says who may run a command.
type access int

const (
	anyone access = iota
	signedIn
	signedOut
)

type command struct {
	name   string
	usage  string
	access access
	staff  bool
	run    func(ctx context.Context, args []string) error
}

// execIface is the command surface the REPL needs. The real App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	lookup(name string) (command, bool)
	available(loggedIn bool) []command
}

// runREPL reads a line, takes the first token as the command and runs it
// with the remaining tokens as arguments. It returns on EOF or on "exit"
// and "quit".
//
// Command errors are reported to the user and never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("rosenblum %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printHelp(a.available(a.isLoggedIn()))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := a.lookup(name)
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		switch {
		case cmd.access == signedIn && !a.isLoggedIn():
			printlnFn("Please log in first.")
			continue
		case cmd.access == signedOut && a.isLoggedIn():
			printlnFn("You are already logged in. Run 'logout' first.")
			continue
		}

		if err := cmd.run(ctx, args); err != nil {
			printlnFn(describe(err))
		}
	}
}

func printHelp(cmds []command) {
	var customer, staff []string
	for _, c := range cmds {
		entry := c.name
		if c.usage != "" {
			entry += " " + c.usage
		}
		if c.staff {
			staff = append(staff, entry)
		} else {
			customer = append(customer, entry)
		}
	}
	printlnFn("Available commands: " + strings.Join(customer, ", ") + ", exit")
	if len(staff) > 0 {
		printlnFn("Staff commands: " + strings.Join(staff, ", "))
	}
}
