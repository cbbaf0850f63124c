package effects

import (
	"context"
	"errors"
	"sync"

	"github.com/on-the-ground/composable_go/effects/internal/registry"
	"github.com/on-the-ground/composable_go/shared/helper"
)

// ErrNoCancellationRegistry is returned when a context carries no registry installed by WithCancellation.
var ErrNoCancellationRegistry = errors.New("no cancellation registry in context")

const defaultRegistryShards = 16

type (
	cancellationKey struct{}
	cancelHookKey   struct{}
)

// WithCancellation installs a cancellation registry in ctx.
//
// Cancellable effects run under the returned context are tracked by id until
// they complete. The teardown cancels everything still tracked and returns
// the parent context.
//
// Usage:
//
//	ctx, teardown := effects.WithCancellation(ctx)
//	defer teardown()
func WithCancellation(ctx context.Context) (context.Context, func() context.Context) {
	reg := registry.New(defaultRegistryShards)
	ctxWith := context.WithValue(ctx, cancellationKey{}, reg)
	return ctxWith, func() context.Context {
		reg.CancelAll()
		return ctx
	}
}

// CancelID cancels every effect tracked under id in the registry of ctx and
// reports how many were cancelled.
func CancelID(ctx context.Context, id any) (int, error) {
	reg, err := registryOf(ctx)
	if err != nil {
		return 0, err
	}
	return reg.Cancel(id), nil
}

// InFlight reports how many cancellable effects are tracked in the registry of ctx.
func InFlight(ctx context.Context) (int, error) {
	reg, err := registryOf(ctx)
	if err != nil {
		return 0, err
	}
	return reg.Len(), nil
}

// WithCancelHook returns a context in which hook is called, synchronously,
// whenever a Cancellable effect subscribed under it is torn down through
// the registry. Hooks of enclosing contexts are called as well.
func WithCancelHook(ctx context.Context, hook func()) context.Context {
	parent, _ := helper.ContextValueOf[func()](ctx, cancelHookKey{})
	return context.WithValue(ctx, cancelHookKey{}, func() {
		hook()
		if parent != nil {
			parent()
		}
	})
}

func registryOf(ctx context.Context) (*registry.Registry, error) {
	reg, ok := helper.ContextValueOf[*registry.Registry](ctx, cancellationKey{})
	if !ok {
		return nil, ErrNoCancellationRegistry
	}
	return reg, nil
}

// Cancellable tracks e under id while it runs.
//
// With cancelInFlight set, effects already tracked under id are cancelled
// before e is subscribed. Without a registry in the context e runs untracked.
func (e Effect[A]) Cancellable(id any, cancelInFlight bool) Effect[A] {
	return New(func(ctx context.Context, emit func(A), done func()) {
		reg, err := registryOf(ctx)
		if err != nil {
			e.Run(ctx, emit, done)
			return
		}
		if cancelInFlight {
			reg.Cancel(id)
		}

		inner, cancel := context.WithCancel(ctx)
		var (
			once  sync.Once
			token uint64
		)
		token = reg.Register(id, func() {
			once.Do(func() {
				cancel()
				if hook, ok := helper.ContextValueOf[func()](ctx, cancelHookKey{}); ok {
					hook()
				}
				done()
			})
		})

		e.Run(inner, emit, func() {
			once.Do(func() {
				reg.Unregister(id, token)
				cancel()
				done()
			})
		})
	})
}

// Cancel returns an effect that cancels every effect tracked under id.
func Cancel[A any](id any) Effect[A] {
	return New(func(ctx context.Context, _ func(A), done func()) {
		if reg, err := registryOf(ctx); err == nil {
			reg.Cancel(id)
		}
		done()
	})
}
