package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/on-the-ground/composable_go/examples/todos"
	"github.com/on-the-ground/composable_go/store"
	"github.com/spf13/cobra"
)

func todosCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "todos",
		Short: "Keep a todo list that sorts completed todos last",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			s, err := newSession(ctx, flags)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := s.Close(); err == nil {
					err = cerr
				}
			}()

			env := todos.Environment{
				UUID:      uuid.New,
				MainQueue: s.mainQueue,
				SortDelay: s.cfg.Todos.SortDelay,
			}
			opts := append(storeOptions[todos.State](s, "todos"), store.WithContext[todos.State](ctx))
			list := store.New(todos.State{}, decorate(s, todos.Reducer), env, opts...)
			defer list.Close()

			return todosREPL(ctx, list, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func todosREPL(ctx context.Context, list *store.Store[todos.State, todos.Action], in io.Reader, out io.Writer) error {
	p := newPrompt("todos", in, out)

	index := func(args []string) (int, error) {
		if len(args) == 0 {
			return 0, fmt.Errorf("missing todo index")
		}
		n, err := ints(args[:1])
		if err != nil {
			return 0, err
		}
		if n[0] < 0 || n[0] >= len(list.State().Todos) {
			return 0, fmt.Errorf("no todo at %d", n[0])
		}
		return n[0], nil
	}

	p.handle("add", "[description]", "add a todo at the top", func(args []string) error {
		list.Send(todos.AddButtonTapped{})
		if len(args) > 0 {
			list.Send(todos.Row{Index: 0, Action: todos.TextFieldChanged{Text: strings.Join(args, " ")}})
		}
		return nil
	})
	p.handle("check", "<index>", "toggle a todo", func(args []string) error {
		i, err := index(args)
		if err != nil {
			return err
		}
		list.Send(todos.Row{Index: i, Action: todos.CheckboxTapped{}})
		return nil
	})
	p.handle("edit", "<index> <description>", "change a description", func(args []string) error {
		i, err := index(args)
		if err != nil {
			return err
		}
		list.Send(todos.Row{Index: i, Action: todos.TextFieldChanged{Text: strings.Join(args[1:], " ")}})
		return nil
	})
	p.handle("list", "", "print the todos", func([]string) error {
		p.render(func(w io.Writer) { renderTodos(w, list.State()) })
		return nil
	})

	unsubscribe := list.Subscribe(func(s todos.State) {
		p.render(func(w io.Writer) { renderTodos(w, s) })
	})
	defer unsubscribe()

	p.render(func(w io.Writer) { renderTodos(w, list.State()) })
	return p.run(ctx)
}
