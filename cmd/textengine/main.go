// Package main is a small REPL driving the text engine from a real
// terminal, standing in for the host UI the engine treats as an
// external collaborator.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/dshills/textengine/internal/engine"
	"github.com/dshills/textengine/internal/engine/persist"
)

func main() {
	os.Exit(run())
}

func run() int {
	content := flag.String("content", "", "initial document content")
	flag.Parse()

	e := engine.New(engine.WithContent(*content))

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fmt.Fprintln(os.Stderr, "Error: stdin is not a terminal")
		return 1
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to enter raw mode: %v\n", err)
		return 1
	}
	defer term.Restore(fd, oldState)

	t := term.NewTerminal(os.Stdin, "> ")
	fmt.Fprint(t, "textengine REPL. Commands: insert, delete, replace, undo, redo, text, find, save, load, quit\r\n")

	for {
		line, err := t.ReadLine()
		if err != nil {
			return 0
		}
		if strings.TrimSpace(line) == "quit" {
			return 0
		}
		if err := dispatch(t, &e, line); err != nil {
			fmt.Fprintf(t, "error: %v\r\n", err)
		}
	}
}

func dispatch(t *term.Terminal, ep **engine.Engine, line string) error {
	e := *ep
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "insert":
		if len(fields) < 3 {
			return fmt.Errorf("usage: insert <offset> <text>")
		}
		offset, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return err
		}
		_, err = e.Insert(offset, strings.Join(fields[2:], " "))
		return err

	case "delete":
		if len(fields) != 3 {
			return fmt.Errorf("usage: delete <start> <end>")
		}
		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return err
		}
		end, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return err
		}
		return e.Delete(start, end)

	case "replace":
		if len(fields) < 4 {
			return fmt.Errorf("usage: replace <start> <end> <text>")
		}
		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return err
		}
		end, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return err
		}
		_, err = e.Replace(start, end, strings.Join(fields[3:], " "))
		return err

	case "undo":
		_, err := e.Undo()
		return err

	case "redo":
		_, err := e.Redo()
		return err

	case "text":
		fmt.Fprintf(t, "%q\r\n", e.Text())
		return nil

	case "find":
		if len(fields) != 2 {
			return fmt.Errorf("usage: find <pattern>")
		}
		m, found := e.SearchSingle(fields[1], 0, true, false)
		if !found {
			fmt.Fprintln(t, "no match\r")
			return nil
		}
		fmt.Fprintf(t, "match at [%d, %d)\r\n", m.Start, m.End)
		return nil

	case "save":
		if len(fields) != 2 {
			return fmt.Errorf("usage: save <path>")
		}
		data, err := persist.Snapshot(e)
		if err != nil {
			return err
		}
		return os.WriteFile(fields[1], persist.Pretty(data), 0o644)

	case "load":
		if len(fields) != 2 {
			return fmt.Errorf("usage: load <path>")
		}
		data, err := os.ReadFile(fields[1])
		if err != nil {
			return err
		}
		restored, err := persist.Restore(data)
		if err != nil {
			return err
		}
		*ep = restored
		return nil

	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}
