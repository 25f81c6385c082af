// Package iterx provides slice and iterator helpers for grouping, windowing,
// deduplicating and interleaving sequences.
//
// Functions that must see the whole input take slices. Functions that can
// stream take iter.Seq and return lazily where that makes sense.
package iterx

import (
	"errors"
	"iter"
)

var (
	ErrInvalidN     = errors.New("iterx: n must be at least one")
	ErrNotDivisible = errors.New("iterx: length is not divisible by n")
	ErrEmpty        = errors.New("iterx: empty sequence")
	ErrInvalidStep  = errors.New("iterx: step must be at least one")
)

// Chunked splits s into slices of length n. The last chunk may be shorter
// unless strict is set, in which case a short tail is an error.
func Chunked[T any](s []T, n int, strict bool) ([][]T, error) {
	if n < 1 {
		return nil, ErrInvalidN
	}
	if strict && len(s)%n != 0 {
		return nil, ErrNotDivisible
	}
	out := make([][]T, 0, (len(s)+n-1)/n)
	for i := 0; i < len(s); i += n {
		out = append(out, s[i:min(i+n, len(s))])
	}
	return out, nil
}

// Sliced is Chunked for inputs that are already indexable.
func Sliced[T any](s []T, n int, strict bool) ([][]T, error) {
	return Chunked(s, n, strict)
}

// Batched groups a stream into slices of up to n items. It panics if n < 1.
func Batched[T any](seq iter.Seq[T], n int) iter.Seq[[]T] {
	if n < 1 {
		panic(ErrInvalidN)
	}
	return func(yield func([]T) bool) {
		batch := make([]T, 0, n)
		for v := range seq {
			batch = append(batch, v)
			if len(batch) == n {
				if !yield(batch) {
					return
				}
				batch = make([]T, 0, n)
			}
		}
		if len(batch) > 0 {
			yield(batch)
		}
	}
}

// Flatten joins one level of nesting.
func Flatten[T any](ss [][]T) []T {
	total := 0
	for _, s := range ss {
		total += len(s)
	}
	out := make([]T, 0, total)
	for _, s := range ss {
		out = append(out, s...)
	}
	return out
}

// Chain yields every element of each sequence in turn.
func Chain[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for v := range seq {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// First returns the first element, or def[0] when seq is empty.
func First[T any](seq iter.Seq[T], def ...T) (T, error) {
	for v := range seq {
		return v, nil
	}
	if len(def) > 0 {
		return def[0], nil
	}
	var zero T
	return zero, ErrEmpty
}

// Last returns the final element, or def[0] when seq is empty.
func Last[T any](seq iter.Seq[T], def ...T) (T, error) {
	var last T
	found := false
	for v := range seq {
		last, found = v, true
	}
	if found {
		return last, nil
	}
	if len(def) > 0 {
		return def[0], nil
	}
	return last, ErrEmpty
}

// Nth returns the element at index n.
func Nth[T any](seq iter.Seq[T], n int) (T, bool) {
	var zero T
	if n < 0 {
		return zero, false
	}
	i := 0
	for v := range seq {
		if i == n {
			return v, true
		}
		i++
	}
	return zero, false
}

// Take collects at most n elements.
func Take[T any](seq iter.Seq[T], n int) []T {
	if n <= 0 {
		return nil
	}
	out := make([]T, 0, n)
	for v := range seq {
		out = append(out, v)
		if len(out) == n {
			break
		}
	}
	return out
}

// Ilen counts the elements of seq, consuming it.
func Ilen[T any](seq iter.Seq[T]) int {
	n := 0
	for range seq {
		n++
	}
	return n
}

// Spy returns the first n elements of seq together with a sequence that
// replays them before the rest. The returned sequence can be ranged over
// once.
func Spy[T any](seq iter.Seq[T], n int) ([]T, iter.Seq[T]) {
	next, stop := iter.Pull(seq)
	var head []T
	for len(head) < n {
		v, ok := next()
		if !ok {
			break
		}
		head = append(head, v)
	}
	return head, func(yield func(T) bool) {
		defer stop()
		for _, v := range head {
			if !yield(v) {
				return
			}
		}
		for {
			v, ok := next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}
