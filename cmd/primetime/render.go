package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/on-the-ground/composable_go/examples/primetime/app"
	"github.com/on-the-ground/composable_go/examples/primetime/counter"
	"github.com/on-the-ground/composable_go/examples/primetime/favoriteprimes"
	"github.com/on-the-ground/composable_go/examples/primetime/primealert"
	"github.com/on-the-ground/composable_go/examples/primetime/primemodal"
	"github.com/on-the-ground/composable_go/examples/primetime/primes"
	"github.com/on-the-ground/composable_go/examples/todos"
)

var (
	bold   = color.New(color.Bold)
	gray   = color.New(color.FgHiBlack)
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
)

func renderCounter(w io.Writer, s counter.ViewState) {
	bold.Fprintf(w, "count: %d", s.Count)
	if s.IsNthPrimeButtonDisabled {
		gray.Fprint(w, "  (looking up the nth prime...)")
	}
	fmt.Fprintln(w)

	if s.IsPrimeModalShown {
		if primes.IsPrime(s.Count) {
			verb := "save"
			if (primemodal.State{Count: s.Count, FavoritePrimes: s.FavoritePrimes}).IsFavorite() {
				verb = "remove"
			}
			green.Fprintf(w, "  %d is prime 🎉", s.Count)
			gray.Fprintf(w, "  (%s)\n", verb)
		} else {
			yellow.Fprintf(w, "  %d is not prime :(\n", s.Count)
		}
	}
	renderAlert(w, s.AlertNthPrime)
}

func renderFavorites(w io.Writer, s favoriteprimes.State) {
	if len(s.FavoritePrimes) == 0 {
		gray.Fprintln(w, "no favorite primes")
	}
	for i, p := range s.FavoritePrimes {
		gray.Fprintf(w, "%3d ", i)
		fmt.Fprintln(w, p)
	}
	renderAlert(w, s.AlertNthPrime)
}

func renderActivity(w io.Writer, feed []app.Activity) {
	if len(feed) == 0 {
		gray.Fprintln(w, "no activity")
	}
	for _, a := range feed {
		gray.Fprintf(w, "%s ", a.Timestamp.Format("15:04:05"))
		switch a.Kind {
		case app.AddedFavoritePrime:
			green.Fprint(w, "+")
		default:
			yellow.Fprint(w, "-")
		}
		fmt.Fprintf(w, " %d\n", a.Prime)
	}
}

func renderTodos(w io.Writer, s todos.State) {
	if len(s.Todos) == 0 {
		gray.Fprintln(w, "nothing to do")
	}
	for i, t := range s.Todos {
		gray.Fprintf(w, "%3d ", i)
		if t.IsComplete {
			green.Fprint(w, "[x] ")
			gray.Fprintln(w, t.Description)
			continue
		}
		fmt.Fprintf(w, "[ ] %s\n", t.Description)
	}
}

func renderAlert(w io.Writer, alert *primealert.PrimeAlert) {
	if alert != nil {
		cyan.Fprintf(w, "  ▶ %s", alert.Title())
		gray.Fprintln(w, "  (dismiss)")
	}
}
