package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"ordindex/store"
)

var (
	errColor  = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
	keyColor  = color.New(color.FgCyan)
)

type Cli struct {
	scanner *bufio.Scanner
	store   *store.Store
	out     io.Writer
}

func NewCli(s *bufio.Scanner, st *store.Store, out io.Writer) *Cli {
	return &Cli{scanner: s, store: st, out: out}
}

// Start runs the read-eval-print loop until EXIT or the end of input.
func (c *Cli) Start() {
	c.printHelp()
	c.printPrompt()
	for c.scanner.Scan() {
		if !c.processInput(c.scanner.Text()) {
			return
		}
		c.printPrompt()
	}
}

func (c *Cli) printHelp() {
	fmt.Fprint(c.out, `
B-Tree CLI

Available Commands:
  SET <key> <val> Insert or overwrite a key-value pair in the B-Tree
  GET <key>       Retrieve the value for key from the B-Tree
  SCAN            List all key-value pairs in key order
  STATS           Show index statistics
  TREE            Print the B-Tree level by level
  HELP            Show this message
  EXIT            Terminate this session
`)
}

func (c *Cli) printPrompt() {
	fmt.Fprint(c.out, "> ")
}

// processInput returns false when the session should end.
func (c *Cli) processInput(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return true
	}
	command := strings.ToLower(fields[0])
	switch command {
	default:
		errColor.Fprintf(c.out, "Unknown command \"%s\"\n", command)
	case "set":
		c.processSetCommand(fields[1:])
	case "get":
		c.processGetCommand(fields[1:])
	case "scan":
		c.processScanCommand(fields[1:])
	case "stats":
		fmt.Fprintln(c.out, c.store.Stats())
	case "tree":
		fmt.Fprint(c.out, c.store.Visualize())
	case "help":
		c.printHelp()
	case "exit":
		return false
	}
	return true
}

func (c *Cli) processSetCommand(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: SET <key> <value>")
		return
	}
	if err := c.store.Set([]byte(args[0]), []byte(args[1])); err != nil {
		errColor.Fprintln(c.out, err)
		return
	}
	fmt.Fprintln(c.out, c.store.Stats())
	fmt.Fprint(c.out, c.store.Visualize())
}

func (c *Cli) processGetCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: GET <key>")
		return
	}
	val, err := c.store.Get([]byte(args[0]))
	switch {
	case errors.Is(err, store.ErrKeyNotFound):
		warnColor.Fprintln(c.out, "Key not found.")
	case err != nil:
		errColor.Fprintln(c.out, err)
	default:
		fmt.Fprintln(c.out, string(val))
	}
}

func (c *Cli) processScanCommand(args []string) {
	if len(args) != 0 {
		fmt.Fprintln(c.out, "Usage: SCAN")
		return
	}
	count := 0
	err := c.store.Scan(func(key, val []byte) bool {
		fmt.Fprintf(c.out, "%s %s\n", keyColor.Sprint(string(key)), val)
		count++
		return true
	})
	if err != nil {
		errColor.Fprintln(c.out, err)
		return
	}
	fmt.Fprintf(c.out, "(%d keys)\n", count)
}
