package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/hornlog/hornlog"
	"github.com/hornlog/hornlog/engine"
)

// Version is a version of this build.
var Version = "hornlog/0.1"

const help = `Commands:
  :help             show this help
  :quit, :exit      leave the interpreter
  :load <file>      consult a source file
  :reload           consult the loaded files again
  :show_rules       list the clauses of the database
  :clear            discard all loaded clauses
  :status           show interpreter status
Anything else is read as a query. After a solution, ; asks for the
next one and . stops.`

func main() {
	var verbose bool
	var occursCheck bool
	pflag.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pflag.BoolVar(&occursCheck, "occurs-check", false, "enable the occurs check in unification")
	pflag.Parse()

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	oldState, err := terminal.MakeRaw(0)
	if err != nil {
		logrus.Panicf("failed to enter raw mode: %v", err)
	}
	restore := func() {
		_ = terminal.Restore(0, oldState)
	}
	defer restore()

	t := terminal.NewTerminal(os.Stdin, "?- ")
	defer fmt.Printf("\r\n")

	logrus.SetOutput(t)

	var opts []engine.Option
	if occursCheck {
		opts = append(opts, engine.WithOccursCheck(true))
	}
	i := hornlog.New(os.Stdin, t, opts...)

	var loaded []string
	for _, a := range pflag.Args() {
		if err := loadFile(i, a); err != nil {
			logrus.Panicf("failed to load %s: %v", a, err)
		}
		loaded = append(loaded, a)
	}

	for {
		line, err := t.ReadLine()
		if err != nil {
			restore()
			os.Exit(0)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if quit := command(i, t, line, &loaded); quit {
				restore()
				os.Exit(0)
			}
			continue
		}
		query(i, t, line)
	}
}

func loadFile(i *hornlog.Interpreter, name string) error {
	b, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	return i.Exec(string(b))
}

// command handles a :-prefixed REPL command and reports whether to
// quit.
func command(i *hornlog.Interpreter, t *terminal.Terminal, line string, loaded *[]string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case ":help":
		fmt.Fprintln(t, help)
	case ":quit", ":exit":
		return true
	case ":load":
		if arg == "" {
			fmt.Fprintln(t, "usage: :load <file>")
			break
		}
		if err := loadFile(i, arg); err != nil {
			fmt.Fprintf(t, "error: %v\n", err)
			break
		}
		*loaded = append(*loaded, arg)
		fmt.Fprintf(t, "loaded %s\n", arg)
	case ":reload":
		i.Reset()
		for _, f := range *loaded {
			if err := loadFile(i, f); err != nil {
				fmt.Fprintf(t, "error: %v\n", err)
				return false
			}
		}
		fmt.Fprintf(t, "reloaded %d file(s)\n", len(*loaded))
	case ":show_rules":
		for _, r := range i.Rules() {
			fmt.Fprintf(t, "%s.\n", r)
		}
	case ":clear":
		i.Reset()
		*loaded = nil
		fmt.Fprintln(t, "cleared")
	case ":status":
		fmt.Fprintf(t, "%s: %d clause(s), %d file(s) loaded\n", Version, len(i.Rules()), len(*loaded))
	default:
		fmt.Fprintf(t, "unknown command %s (try :help)\n", name)
	}
	return false
}

func query(i *hornlog.Interpreter, t *terminal.Terminal, q string) {
	sols, err := i.Query(q)
	if err != nil {
		fmt.Fprintf(t, "error: %v\n", err)
		return
	}
	defer func() { _ = sols.Close() }()

	found := false
	for sols.Next() {
		found = true
		bs := sols.Bindings()
		if len(bs) == 0 {
			fmt.Fprintln(t, "true.")
			return
		}

		ls := make([]string, 0, len(bs))
		for _, n := range sols.Vars() {
			if v, ok := bs[n]; ok {
				ls = append(ls, fmt.Sprintf("%s = %s", n, v))
			}
		}
		fmt.Fprintf(t, "%s ", strings.Join(ls, ",\n"))

		line, err := t.ReadLine()
		if err != nil || !strings.HasPrefix(strings.TrimSpace(line), ";") {
			fmt.Fprintln(t, ".")
			return
		}
	}
	if err := sols.Err(); err != nil {
		fmt.Fprintf(t, "error: %v\n", err)
		return
	}
	if !found {
		fmt.Fprintln(t, "false.")
	}
}
