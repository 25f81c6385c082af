package iterx

import "iter"

// Partition splits s by pred. Elements failing pred come first, matching the
// (false, true) order callers destructure.
func Partition[T any](s []T, pred func(T) bool) (falses, trues []T) {
	for _, v := range s {
		if pred(v) {
			trues = append(trues, v)
		} else {
			falses = append(falses, v)
		}
	}
	return falses, trues
}

// Windowed returns windows of n elements advancing by step. Windows that run
// past the end are padded with *fill; with a nil fill they are dropped.
func Windowed[T any](s []T, n, step int, fill *T) ([][]T, error) {
	if n < 0 {
		return nil, ErrInvalidN
	}
	if n == 0 {
		return [][]T{{}}, nil
	}
	if step < 1 {
		return nil, ErrInvalidStep
	}

	var out [][]T
	if len(s) < n {
		if fill == nil || len(s) == 0 {
			return nil, nil
		}
		return [][]T{pad(s, n, *fill)}, nil
	}
	last := 0
	for start := 0; start+n <= len(s); start += step {
		out = append(out, append([]T(nil), s[start:start+n]...))
		last = start
	}
	// Elements after the last full window are emitted once, padded.
	if tail := last + step; tail < len(s) && len(s) > last+n && fill != nil {
		out = append(out, pad(s[tail:], n, *fill))
	}
	return out, nil
}

func pad[T any](s []T, n int, fill T) []T {
	w := make([]T, n)
	copy(w, s)
	for i := len(s); i < n; i++ {
		w[i] = fill
	}
	return w
}

// Pairwise returns overlapping pairs of neighbours.
func Pairwise[T any](s []T) [][2]T {
	if len(s) < 2 {
		return nil
	}
	out := make([][2]T, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		out = append(out, [2]T{s[i-1], s[i]})
	}
	return out
}

// Padded extends s with fill up to length n. With nextMultiple the result
// length is rounded up to a multiple of n instead.
func Padded[T any](s []T, fill T, n int, nextMultiple bool) []T {
	target := n
	if nextMultiple && n > 0 {
		target = (len(s) + n - 1) / n * n
	}
	if len(s) >= target {
		return append([]T(nil), s...)
	}
	return pad(s, target, fill)
}

// SplitAt splits s at elements matching pred. At most maxsplit splits are
// made when maxsplit is non-negative. Separators are dropped unless
// keepSeparator is set, in which case each becomes its own group.
func SplitAt[T any](s []T, pred func(T) bool, maxsplit int, keepSeparator bool) [][]T {
	if maxsplit == 0 {
		return [][]T{append([]T(nil), s...)}
	}
	var out [][]T
	cur := []T{}
	for i, v := range s {
		if !pred(v) {
			cur = append(cur, v)
			continue
		}
		out = append(out, cur)
		if keepSeparator {
			out = append(out, []T{v})
		}
		if maxsplit == 1 {
			return append(out, append([]T{}, s[i+1:]...))
		}
		cur = []T{}
		maxsplit--
	}
	return append(out, cur)
}

// Distribute deals s into n groups round-robin.
func Distribute[T any](n int, s []T) ([][]T, error) {
	if n < 1 {
		return nil, ErrInvalidN
	}
	out := make([][]T, n)
	for i, v := range s {
		out[i%n] = append(out[i%n], v)
	}
	return out, nil
}

// Interleave takes one element from each slice in turn, stopping when the
// shortest is exhausted.
func Interleave[T any](ss ...[]T) []T {
	if len(ss) == 0 {
		return nil
	}
	shortest := len(ss[0])
	for _, s := range ss[1:] {
		shortest = min(shortest, len(s))
	}
	out := make([]T, 0, shortest*len(ss))
	for i := 0; i < shortest; i++ {
		for _, s := range ss {
			out = append(out, s[i])
		}
	}
	return out
}

// InterleaveLongest is Interleave that skips exhausted slices instead of
// stopping.
func InterleaveLongest[T any](ss ...[]T) []T {
	longest, total := 0, 0
	for _, s := range ss {
		longest = max(longest, len(s))
		total += len(s)
	}
	out := make([]T, 0, total)
	for i := 0; i < longest; i++ {
		for _, s := range ss {
			if i < len(s) {
				out = append(out, s[i])
			}
		}
	}
	return out
}

// RoundRobin lazily interleaves streams, dropping each as it runs dry.
func RoundRobin[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		type puller struct {
			next func() (T, bool)
			stop func()
		}
		active := make([]puller, 0, len(seqs))
		for _, seq := range seqs {
			next, stop := iter.Pull(seq)
			active = append(active, puller{next, stop})
		}
		defer func() {
			for _, p := range active {
				p.stop()
			}
		}()
		for len(active) > 0 {
			kept := active[:0]
			for i, p := range active {
				v, ok := p.next()
				if !ok {
					p.stop()
					continue
				}
				kept = append(kept, p)
				if !yield(v) {
					active = append(kept, active[i+1:]...)
					return
				}
			}
			active = kept
		}
	}
}
