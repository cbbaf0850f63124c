package optics

// CasePath embeds a Value as one variant of Root and extracts it back.
// Extract reports false when root holds another variant.
type CasePath[Root, Value any] struct {
	Embed   func(Value) Root
	Extract func(Root) (Value, bool)
}

// Case builds the case path of a variant type V of the sum interface Root.
// Extraction is a type assertion.
func Case[Root, V any]() CasePath[Root, V] {
	return CasePath[Root, V]{
		Embed: func(v V) Root {
			var r any = v
			return r.(Root)
		},
		Extract: func(r Root) (V, bool) {
			var a any = r
			v, ok := a.(V)
			return v, ok
		},
	}
}

// Wrap builds the case path of a wrapper variant W holding a Value.
// It covers actions of the form AppAction = CounterView{Action: counter.Action}.
func Wrap[Root, W, Value any](wrap func(Value) W, unwrap func(W) Value) CasePath[Root, Value] {
	inner := Case[Root, W]()
	return CasePath[Root, Value]{
		Embed: func(v Value) Root { return inner.Embed(wrap(v)) },
		Extract: func(r Root) (Value, bool) {
			w, ok := inner.Extract(r)
			if !ok {
				var zero Value
				return zero, false
			}
			return unwrap(w), true
		},
	}
}

// Self is the case path that always matches.
func Self[Root any]() CasePath[Root, Root] {
	return CasePath[Root, Root]{
		Embed:   func(r Root) Root { return r },
		Extract: func(r Root) (Root, bool) { return r, true },
	}
}

// Indexed pairs a local action with the index of the collection element it targets.
type Indexed[A any] struct {
	Index  int
	Action A
}
