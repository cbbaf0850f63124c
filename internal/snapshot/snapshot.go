// Package snapshot takes copies of state values that do not share memory with the original.
package snapshot

import "reflect"

// Cloner is implemented by state types holding slices, maps or pointers.
// Clone must return a copy that later mutations of the receiver cannot reach.
type Cloner[S any] interface {
	Clone() S
}

// Of returns a copy of s, deep when S implements Cloner and shallow otherwise.
func Of[S any](s S) S {
	if c, ok := any(s).(Cloner[S]); ok {
		return c.Clone()
	}
	return s
}

// Deep reports whether Of produces deep copies for S.
func Deep[S any]() bool {
	var zero S
	_, ok := any(zero).(Cloner[S])
	return ok
}

// Flat reports whether S holds no pointers, slices, maps, channels, funcs or
// interfaces, so a plain copy of an S shares no memory with the original.
func Flat[S any]() bool {
	return flat(reflect.TypeFor[S]())
}

func flat(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return flat(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !flat(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Independent reports whether Of yields copies that later mutations of the
// original cannot reach.
func Independent[S any]() bool {
	return Deep[S]() || Flat[S]()
}
