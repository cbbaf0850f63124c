// Package effects provides the lazy, cancellable unit of work returned by reducers.
//
// An Effect describes work that has not happened yet. Nothing runs until
// Run is called; a running effect emits zero or more values and then
// completes. Effects have no failure channel: fallible work converts its
// errors into ordinary values (see Attempt) before they leave the effect.
//
// # Cancellation
//
// Effects can be tracked under an identifier and torn down later. The
// registry that tracks them is installed in a context, the same way other
// handlers are scoped:
//
//	ctx, teardown := effects.WithCancellation(ctx)
//	defer teardown()
//
//	search := effects.Future(fetch).Cancellable(searchID{}, true)
//	search.Run(ctx, emit, done)
//
// Cancelling a context passed to Run also stops the effect: outputs after
// cancellation are suppressed and done is called once.
//
// Example:
//
//	e := effects.Map(effects.Just(41), func(n int) int { return n + 1 })
//	out := effects.Collect(ctx, e) // []int{42}
package effects
