package main

import (
	"context"
	"fmt"
	"io"

	"github.com/on-the-ground/composable_go/examples/primetime/app"
	"github.com/on-the-ground/composable_go/examples/primetime/counter"
	"github.com/on-the-ground/composable_go/examples/primetime/primemodal"
	"github.com/on-the-ground/composable_go/store"
	"github.com/spf13/cobra"
)

func counterCmd(flags *rootFlags) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Count up and down and ask for the nth prime",
		Long: `Count up and down, ask which prime is the nth one, and add primes to
the favorites. Favorites are loaded at start and saved on quit.`,
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

			screen := app.CounterStore(root)
			if offline {
				screen = app.OfflineCounterStore(root)
			}
			defer screen.Close()

			err = counterREPL(ctx, screen, cmd.InOrStdin(), cmd.OutOrStdout())
			saveFavorites(root)
			return err
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "compute nth primes locally")
	return cmd
}

func counterREPL(ctx context.Context, screen *store.Store[counter.ViewState, counter.ViewAction], in io.Reader, out io.Writer) error {
	p := newPrompt("counter", in, out)
	send := func(a counter.Action) func([]string) error {
		return func([]string) error {
			screen.Send(counter.Counter{Action: a})
			return nil
		}
	}
	sendModal := func(a primemodal.Action) func([]string) error {
		return func([]string) error {
			if !screen.State().IsPrimeModalShown {
				return fmt.Errorf("open the prime modal first")
			}
			screen.Send(counter.PrimeModal{Action: a})
			return nil
		}
	}

	p.handle("+", "", "increment", send(counter.IncrTapped{}))
	p.handle("-", "", "decrement", send(counter.DecrTapped{}))
	p.handle("nth", "", "look up the nth prime for the count", func([]string) error {
		if screen.State().IsNthPrimeButtonDisabled {
			return fmt.Errorf("a lookup is already running")
		}
		screen.Send(counter.Counter{Action: counter.NthPrimeButtonTapped{}})
		return nil
	})
	p.handle("dismiss", "", "dismiss the nth prime alert", send(counter.AlertDismissButtonTapped{}))
	p.handle("prime", "", "is the count prime?", send(counter.IsPrimeButtonTapped{}))
	p.handle("save", "", "save the count to favorites", sendModal(primemodal.SaveFavoritePrimeTapped{}))
	p.handle("remove", "", "remove the count from favorites", sendModal(primemodal.RemoveFavoritePrimeTapped{}))
	p.handle("close", "", "close the prime modal", send(counter.PrimeModalDismissed{}))
	p.handle("show", "", "print the screen", func([]string) error {
		p.render(func(w io.Writer) { renderCounter(w, screen.State()) })
		return nil
	})

	unsubscribe := screen.Subscribe(func(s counter.ViewState) {
		p.render(func(w io.Writer) { renderCounter(w, s) })
	})
	defer unsubscribe()

	p.render(func(w io.Writer) { renderCounter(w, screen.State()) })
	return p.run(ctx)
}
