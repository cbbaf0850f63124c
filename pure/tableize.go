package pure

// Tableize1 memoizes a pure function of one argument.
func Tableize1[I comparable, O any](pureFn func(I) O, maxTableSize int) func(I) O {
	memo := NewMemo[I, O](maxTableSize)
	return func(i I) O {
		if v, ok := memo.Load(i); ok {
			return v
		}
		v := pureFn(i)
		memo.Store(i, v)
		return v
	}
}

type pair[I1, I2 comparable] struct {
	i1 I1
	i2 I2
}

// Tableize2 memoizes a pure function of two arguments.
func Tableize2[I1, I2 comparable, O any](pureFn func(I1, I2) O, maxTableSize int) func(I1, I2) O {
	tableized := Tableize1(func(p pair[I1, I2]) O {
		return pureFn(p.i1, p.i2)
	}, maxTableSize)
	return func(i1 I1, i2 I2) O {
		return tableized(pair[I1, I2]{i1, i2})
	}
}
