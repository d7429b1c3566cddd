package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with a stub.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

const helpText = `Available commands:
  new <title>        start a new list
  title <title>      rename the active list
  add <name>         add a participant
  remove <name>      remove the first participant with that name (rm)
  remove #<n>        remove participant number n as listed by show
  shuffle            draw the matches again
  show               show the active list
  history            list saved lists (ls)
  select <n|id>      make a saved list active
  help               show this help
  exit | quit        leave the program`

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	hasList() bool
	New(ctx context.Context, title string) error
	Title(ctx context.Context, title string) error
	Add(ctx context.Context, name string) error
	Remove(ctx context.Context, target string) error
	Shuffle(ctx context.Context) error
	Show(ctx context.Context) error
	History(ctx context.Context) error
	Select(ctx context.Context, ref string) error
}

// runREPL starts a simple read–eval–print loop for the giftswap CLI.
//
// It reads a line from reader, takes the first word as the command and the
// rest of the line as its argument, so names and titles may contain spaces.
// The prompt shows the active list (from statusFn) and is only printed when
// prompt is true. The loop exits on EOF or when the user types "exit" or
// "quit".
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, prompt bool) {
	for {
		if prompt {
			printFn(fmt.Sprintf("giftswap%s> ", statusFn()))
		}
		line, err := readLine(reader)
		if err != nil {
			return
		}
		cmd, arg, _ := strings.Cut(line, " ")
		if cmd == "" {
			continue
		}
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(cmd) {
		case "help", "?":
			printlnFn(helpText)

		case "new":
			_ = a.New(ctx, arg)

		case "history", "ls":
			_ = a.History(ctx)

		case "select":
			_ = a.Select(ctx, arg)

		case "title", "add", "remove", "rm", "shuffle", "show":
			if !a.hasList() {
				printlnFn("No active list. Start one with 'new <title>' or pick one with 'select <n>'.")
				continue
			}
			switch strings.ToLower(cmd) {
			case "title":
				_ = a.Title(ctx, arg)
			case "add":
				_ = a.Add(ctx, arg)
			case "remove", "rm":
				_ = a.Remove(ctx, arg)
			case "shuffle":
				_ = a.Shuffle(ctx)
			case "show":
				_ = a.Show(ctx)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
