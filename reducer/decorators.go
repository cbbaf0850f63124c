package reducer

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/on-the-ground/composable_go/effects"
	"github.com/on-the-ground/composable_go/internal/snapshot"
	"go.uber.org/zap"
)

// Logging logs every action with the state it produced.
// State and effects of r are passed through unchanged.
func Logging[S, A, E any](r Reducer[S, A, E], logger *zap.Logger) Reducer[S, A, E] {
	return func(state *S, action A, env E) []effects.Effect[A] {
		effs := r(state, action, env)
		logger.Info("action",
			zap.String("type", fmt.Sprintf("%T", action)),
			zap.Any("action", action),
			zap.Any("state", *state),
			zap.Int("effects", len(effs)),
		)
		return effs
	}
}

type debugConfig[S any] struct {
	clone   func(S) S
	now     func() time.Time
	cmpOpts []cmp.Option
	sink    func(Transition)
}

// DebugOption configures Debug.
type DebugOption[S any] func(*debugConfig[S])

// WithClone overrides how the state before the action is copied.
// The default copies deeply when S implements Clone() S.
func WithClone[S any](clone func(S) S) DebugOption[S] {
	return func(c *debugConfig[S]) { c.clone = clone }
}

// WithClock sets the clock used to time transitions.
func WithClock[S any](now func() time.Time) DebugOption[S] {
	return func(c *debugConfig[S]) { c.now = now }
}

// WithCmpOptions adds go-cmp options for rendering the state diff.
func WithCmpOptions[S any](opts ...cmp.Option) DebugOption[S] {
	return func(c *debugConfig[S]) { c.cmpOpts = append(c.cmpOpts, opts...) }
}

// WithSink receives every transition after it is logged.
func WithSink[S any](sink func(Transition)) DebugOption[S] {
	return func(c *debugConfig[S]) { c.sink = sink }
}

// Transition is one action applied by Debug.
type Transition struct {
	Action string
	Diff   string
	Span   effects.TimeSpan
}

func (t Transition) TimeSpan() effects.TimeSpan { return t.Span }

var _ effects.TimeBounded = Transition{}

// Debug logs every action at debug level together with a diff of the state
// it changed and the time spent reducing it. An empty diff is logged as
// "(no state changes)". State and effects of r are passed through unchanged.
func Debug[S, A, E any](r Reducer[S, A, E], logger *zap.Logger, opts ...DebugOption[S]) Reducer[S, A, E] {
	cfg := debugConfig[S]{
		clone: snapshot.Of[S],
		now:   time.Now,
		cmpOpts: []cmp.Option{
			cmp.Exporter(func(reflect.Type) bool { return true }),
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(state *S, action A, env E) []effects.Effect[A] {
		before := cfg.clone(*state)
		start := cfg.now()
		effs := r(state, action, env)

		t := Transition{
			Action: fmt.Sprintf("%T", action),
			Diff:   cmp.Diff(before, *state, cfg.cmpOpts...),
			Span:   effects.NewTimeSpan(start, cfg.now()),
		}
		if t.Diff == "" {
			t.Diff = "(no state changes)"
		}

		logger.Debug("received action",
			zap.String("action", t.Action),
			zap.Any("payload", action),
			zap.String("diff", t.Diff),
			zap.Duration("took", t.Span.Duration()),
			zap.Int("effects", len(effs)),
		)
		if cfg.sink != nil {
			cfg.sink(t)
		}
		return effs
	}
}
