// Package optics holds the two projections reducers are composed with.
//
// A KeyPath focuses on a part of a product (a field of a struct). A CasePath
// focuses on one variant of a sum (one kind of action). Both obey round-trip
// laws that the composition operators rely on:
//
//	kp.Get(kp.Set(r, v)) == v
//	kp.Set(r, kp.Get(r)) == r
//	cp.Extract(cp.Embed(v)) == v, true
package optics

// KeyPath reads and writes a Value inside a Root.
type KeyPath[Root, Value any] struct {
	Get func(Root) Value
	Set func(*Root, Value)
}

// Field builds a key path from a pointer accessor, the usual shape for struct fields:
//
//	optics.Field(func(s *AppState) *int { return &s.Count })
func Field[Root, Value any](at func(*Root) *Value) KeyPath[Root, Value] {
	return KeyPath[Root, Value]{
		Get: func(r Root) Value { return *at(&r) },
		Set: func(r *Root, v Value) { *at(r) = v },
	}
}

// Identity focuses on the whole root.
func Identity[Root any]() KeyPath[Root, Root] {
	return KeyPath[Root, Root]{
		Get: func(r Root) Root { return r },
		Set: func(r *Root, v Root) { *r = v },
	}
}

// Compose focuses through outer and then inner.
func Compose[Root, Mid, Value any](outer KeyPath[Root, Mid], inner KeyPath[Mid, Value]) KeyPath[Root, Value] {
	return KeyPath[Root, Value]{
		Get: func(r Root) Value { return inner.Get(outer.Get(r)) },
		Set: func(r *Root, v Value) {
			mid := outer.Get(*r)
			inner.Set(&mid, v)
			outer.Set(r, mid)
		},
	}
}

// Modify applies f to the value focused by kp in place.
func (kp KeyPath[Root, Value]) Modify(r *Root, f func(*Value)) {
	v := kp.Get(*r)
	f(&v)
	kp.Set(r, v)
}
