package sim

import "iter"

// Take yields at most the first n elements of seq. It stops pulling as soon
// as the nth element is yielded.
func Take[V any](seq iter.Seq[V], n int) iter.Seq[V] {
	return func(yield func(V) bool) {
		if n <= 0 {
			return
		}
		taken := 0
		for v := range seq {
			if !yield(v) {
				return
			}
			taken++
			if taken == n {
				return
			}
		}
	}
}

// Map yields f applied to each element of seq.
func Map[V, W any](seq iter.Seq[V], f func(V) W) iter.Seq[W] {
	return func(yield func(W) bool) {
		for v := range seq {
			if !yield(f(v)) {
				return
			}
		}
	}
}

// Constant returns a generator that always yields v.
func Constant[I any](v I) Generator[I] {
	return func() I { return v }
}

// Cycle returns a generator that yields values in order and starts over
// once they run out.
func Cycle[I any](values ...I) Generator[I] {
	if len(values) == 0 {
		panic("sim: Cycle needs at least one value")
	}
	vals := append([]I(nil), values...)
	i := 0
	return func() I {
		v := vals[i]
		i = (i + 1) % len(vals)
		return v
	}
}

// FromSlice returns a generator that yields values in order and then
// fallback forever.
func FromSlice[I any](values []I, fallback I) Generator[I] {
	vals := append([]I(nil), values...)
	i := 0
	return func() I {
		if i >= len(vals) {
			return fallback
		}
		v := vals[i]
		i++
		return v
	}
}

// FromSeq returns a generator that pulls its inputs from seq and yields
// fallback once seq is exhausted. Call stop when done with the generator
// if seq may not have been drained.
func FromSeq[I any](seq iter.Seq[I], fallback I) (gen Generator[I], stop func()) {
	next, stop := iter.Pull(seq)
	done := false
	return func() I {
		if done {
			return fallback
		}
		v, ok := next()
		if !ok {
			done = true
			return fallback
		}
		return v
	}, stop
}
