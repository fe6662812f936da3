package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL needs. The real App satisfies
// it; tests provide a lightweight stub. Handlers get the words after the
// command name.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	OAuth(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error

	Devices(ctx context.Context, args []string) error
	AddDevice(ctx context.Context, args []string) error
	RenameDevice(ctx context.Context, args []string) error
	RemoveDevice(ctx context.Context, args []string) error

	Subscription(ctx context.Context, args []string) error
	Plan(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error
	AutoRenew(ctx context.Context, args []string) error
	Payment(ctx context.Context, args []string) error

	Access(ctx context.Context, args []string) error
	Watch(ctx context.Context, args []string) error
	Locale(ctx context.Context, args []string) error
}

type command struct {
	run       func(execIface, context.Context, []string) error
	needLogin bool
}

var commands = map[string]command{
	"register":      {execIface.Register, false},
	"login":         {execIface.Login, false},
	"oauth":         {execIface.OAuth, false},
	"logout":        {execIface.Logout, true},
	"whoami":        {execIface.WhoAmI, false},
	"devices":       {execIface.Devices, true},
	"device-add":    {execIface.AddDevice, true},
	"device-rename": {execIface.RenameDevice, true},
	"device-remove": {execIface.RemoveDevice, true},
	"subscription":  {execIface.Subscription, true},
	"plan":          {execIface.Plan, true},
	"cancel":        {execIface.Cancel, true},
	"autorenew":     {execIface.AutoRenew, true},
	"payment":       {execIface.Payment, true},
	"access":        {execIface.Access, false},
	"watch":         {execIface.Watch, false},
	"locale":        {execIface.Locale, false},
}

const (
	guestHelp = "Available commands: register, login, oauth <kakao|google>, watch <tier>, locale <ko|en>, exit"
	userHelp  = "Available commands: whoami, devices, device-add <name> <type>, device-rename <id> <name>, " +
		"device-remove <id>, subscription, plan <tier>, cancel, autorenew <on|off>, payment <id>, " +
		"access <contentId>, watch <tier> [nodevicecheck], locale <ko|en>, logout, exit"
)

// runREPL reads commands from scanner until EOF, "exit" or "quit", or until
// ctx is done. The first word picks the handler; the rest are its
// arguments. Commands that need a session are refused while logged out.
//
// Handler errors are ignored here; handlers report them to the user
// themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("movie %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			if a.isLoggedIn() {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := commands[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if cmd.needLogin && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}
		_ = cmd.run(a, ctx, args)
	}
}
