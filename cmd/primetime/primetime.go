package main

import (
	"context"
	"time"

	"github.com/on-the-ground/composable_go/examples/primetime/app"
	"github.com/on-the-ground/composable_go/examples/primetime/favoriteprimes"
	"github.com/on-the-ground/composable_go/examples/primetime/fileclient"
	"github.com/on-the-ground/composable_go/examples/primetime/primes"
	"github.com/on-the-ground/composable_go/store"
)

// newAppStore builds the prime time root store and loads the saved favorites.
func newAppStore(ctx context.Context, s *session) *store.Store[app.State, app.Action] {
	env := app.Environment{
		FileClient:      fileclient.Live(s.blobs, s.logger),
		NthPrime:        s.nthPrime(),
		OfflineNthPrime: primes.Offline,
		MainQueue:       s.mainQueue,
		Now:             time.Now,
		Logger:          s.logger,
	}
	opts := append(storeOptions[app.State](s, "app"), store.WithContext[app.State](ctx))
	root := store.New(app.State{}, decorate(s, app.ActivityFeed(app.Reducer)), env, opts...)

	root.Send(app.FavoritePrimes{Action: favoriteprimes.LoadButtonTapped{}})
	return root
}

// saveFavorites persists the favorites of root. The live file client saves synchronously.
func saveFavorites(root *store.Store[app.State, app.Action]) {
	root.Send(app.FavoritePrimes{Action: favoriteprimes.SaveButtonTapped{}})
}
