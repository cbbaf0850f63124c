package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type command struct {
	name  string
	usage string
	help  string
	run   func(args []string) error
}

// prompt reads one command per line and dispatches it. Output is serialized,
// since store observers may print from effect goroutines.
type prompt struct {
	name     string
	in       io.Reader
	mu       sync.Mutex
	out      io.Writer
	commands []command
}

func newPrompt(name string, in io.Reader, out io.Writer) *prompt {
	return &prompt{name: name, in: in, out: out}
}

func (p *prompt) handle(name, usage, help string, run func(args []string) error) {
	p.commands = append(p.commands, command{name: name, usage: usage, help: help, run: run})
}

// printf writes under the output lock.
func (p *prompt) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

// render writes with fn under the output lock.
func (p *prompt) render(fn func(w io.Writer)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.out)
}

func (p *prompt) warn(format string, args ...any) {
	p.render(func(w io.Writer) {
		color.New(color.FgYellow).Fprint(w, "! ")
		fmt.Fprintf(w, format+"\n", args...)
	})
}

func (p *prompt) help() {
	p.render(func(w io.Writer) {
		for _, c := range p.commands {
			fmt.Fprintf(w, "  %-22s %s\n", strings.TrimSpace(c.name+" "+c.usage), c.help)
		}
		fmt.Fprintf(w, "  %-22s %s\n", "help", "show this list")
		fmt.Fprintf(w, "  %-22s %s\n", "quit", "leave")
	})
}

// run reads commands until quit, end of input or ctx is done.
func (p *prompt) run(ctx context.Context) error {
	scanner := bufio.NewScanner(p.in)
	for ctx.Err() == nil {
		p.render(func(w io.Writer) { color.New(color.FgGreen).Fprintf(w, "%s> ", p.name) })
		if !scanner.Scan() {
			p.printf("\n")
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "help", "?":
			p.help()
			continue
		case "quit", "exit", "q":
			return nil
		}

		if err := p.dispatch(fields[0], fields[1:]); err != nil {
			p.warn("%v", err)
		}
	}
	return nil
}

func (p *prompt) dispatch(name string, args []string) error {
	for _, c := range p.commands {
		if c.name == name {
			return c.run(args)
		}
	}
	return fmt.Errorf("unknown command %q, try help", name)
}

// ints parses every argument as an int.
func ints(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", a)
		}
		out = append(out, n)
	}
	return out, nil
}
