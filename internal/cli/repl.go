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
	isLoggedIn() bool
	Browse(ctx context.Context) error
	ShowCart(ctx context.Context) error
	AddToCart(ctx context.Context, query string) error
	IncrementLine(ctx context.Context, query string) error
	DecrementLine(ctx context.Context, query string) error
	RemoveLine(ctx context.Context, query string) error
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Checkout(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the storefront shell.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help             — show available commands
//	  - browse | b       — list the catalog
//	  - cart | c         — show the cart
//	  - add <product>    — add a product to the cart
//	  - inc <product>    — increment a cart line
//	  - dec <product>    — decrement a cart line
//	  - rm <product>     — remove a cart line
//	  - exit | quit      — leave the program
//
//	Not logged in:
//	  - login            — sign in (OTP or password)
//	  - register         — create an account
//	  - reset            — reset a forgotten password
//
//	Logged in:
//	  - checkout         — place an order
//	  - logout           — sign out
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sf> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: (b)rowse, (c)art, add <product>, inc <product>, dec <product>, rm <product>, exit")
			if a.isLoggedIn() {
				printlnFn("Signed in: checkout, logout")
			} else {
				printlnFn("Signed out: login, register, reset")
			}

		case "b", "browse", "products":
			_ = a.Browse(ctx)

		case "c", "cart":
			_ = a.ShowCart(ctx)

		case "add":
			if len(args) == 0 {
				printlnFn("Usage: add <product>")
				continue
			}
			_ = a.AddToCart(ctx, strings.Join(args, " "))

		case "inc":
			if len(args) == 0 {
				printlnFn("Usage: inc <product>")
				continue
			}
			_ = a.IncrementLine(ctx, strings.Join(args, " "))

		case "dec":
			if len(args) == 0 {
				printlnFn("Usage: dec <product>")
				continue
			}
			_ = a.DecrementLine(ctx, strings.Join(args, " "))

		case "rm":
			if len(args) == 0 {
				printlnFn("Usage: rm <product>")
				continue
			}
			_ = a.RemoveLine(ctx, strings.Join(args, " "))

		case "login":
			_ = a.Login(ctx)

		case "register":
			_ = a.Register(ctx)

		case "reset":
			_ = a.ResetPassword(ctx)

		case "checkout":
			_ = a.Checkout(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
