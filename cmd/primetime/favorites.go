package main

import (
	"context"
	"fmt"
	"io"

	"github.com/on-the-ground/composable_go/examples/primetime/app"
	"github.com/on-the-ground/composable_go/examples/primetime/favoriteprimes"
	"github.com/on-the-ground/composable_go/store"
	"github.com/spf13/cobra"
)

func favoritesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List, delete, save and load favorite primes",
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

			root := newAppStore(ctx, s)
			defer root.Close()

			return favoritesREPL(ctx, root, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func favoritesREPL(ctx context.Context, root *store.Store[app.State, app.Action], in io.Reader, out io.Writer) error {
	screen := app.FavoritePrimesStore(root)
	defer screen.Close()

	p := newPrompt("favorites", in, out)
	send := func(a favoriteprimes.Action) func([]string) error {
		return func([]string) error {
			screen.Send(a)
			return nil
		}
	}

	p.handle("list", "", "print the favorites", func([]string) error {
		p.render(func(w io.Writer) { renderFavorites(w, screen.State()) })
		return nil
	})
	p.handle("delete", "<index>...", "delete favorites by position", func(args []string) error {
		indices, err := ints(args)
		if err != nil {
			return err
		}
		if len(indices) == 0 {
			return fmt.Errorf("delete needs at least one index")
		}
		screen.Send(favoriteprimes.DeleteFavoritePrimes{Indices: indices})
		return nil
	})
	p.handle("nth", "<prime>", "which prime is this?", func(args []string) error {
		n, err := ints(args)
		if err != nil {
			return err
		}
		if len(n) != 1 {
			return fmt.Errorf("nth needs exactly one prime")
		}
		screen.Send(favoriteprimes.PrimeButtonTapped{Prime: n[0]})
		return nil
	})
	p.handle("dismiss", "", "dismiss the nth prime alert", send(favoriteprimes.AlertDismissButtonTapped{}))
	p.handle("save", "", "save the favorites", send(favoriteprimes.SaveButtonTapped{}))
	p.handle("load", "", "load the saved favorites", send(favoriteprimes.LoadButtonTapped{}))
	p.handle("activity", "", "print what changed in this session", func([]string) error {
		p.render(func(w io.Writer) { renderActivity(w, root.State().ActivityFeed) })
		return nil
	})

	unsubscribe := screen.Subscribe(func(s favoriteprimes.State) {
		p.render(func(w io.Writer) { renderFavorites(w, s) })
	})
	defer unsubscribe()

	p.render(func(w io.Writer) { renderFavorites(w, screen.State()) })
	return p.run(ctx)
}
