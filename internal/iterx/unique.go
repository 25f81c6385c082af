package iterx

import "cmp"

// UniqueEverseen keeps the first occurrence of each element.
func UniqueEverseen[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// UniqueJustseen drops elements equal to their predecessor.
func UniqueJustseen[T comparable](s []T) []T {
	out := make([]T, 0, len(s))
	for i, v := range s {
		if i > 0 && v == s[i-1] {
			continue
		}
		out = append(out, v)
	}
	return out
}

// AllUnique reports whether no element repeats.
func AllUnique[T comparable](s []T) bool {
	seen := make(map[T]struct{}, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

// AllEqual reports whether every element equals the first. Empty input is
// all-equal.
func AllEqual[T comparable](s []T) bool {
	for _, v := range s {
		if v != s[0] {
			return false
		}
	}
	return true
}

// CountItems tallies occurrences.
func CountItems[T comparable](s []T) map[T]int {
	counts := make(map[T]int)
	for _, v := range s {
		counts[v]++
	}
	return counts
}

// IsSorted reports whether s is in non-decreasing order, or non-increasing
// order when reverse is set.
func IsSorted[T cmp.Ordered](s []T, reverse bool) bool {
	for i := 1; i < len(s); i++ {
		c := cmp.Compare(s[i-1], s[i])
		if (!reverse && c > 0) || (reverse && c < 0) {
			return false
		}
	}
	return true
}
