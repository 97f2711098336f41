// Package collection provides generic slice helpers.
package collection

// Map transforms each element of in with fn.
func Map[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

// Filter keeps the elements for which fn returns true.
func Filter[T any](in []T, fn func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// Contains reports whether v is present in in.
func Contains[T comparable](in []T, v T) bool {
	for _, item := range in {
		if item == v {
			return true
		}
	}
	return false
}

// Sum adds up fn(v) over all elements.
func Sum[T any, N int | int64 | float64](in []T, fn func(T) N) N {
	var total N
	for _, v := range in {
		total += fn(v)
	}
	return total
}

// KeyBy indexes the slice by the key fn extracts. Later elements win on
// duplicate keys.
func KeyBy[T any, K comparable](in []T, fn func(T) K) map[K]T {
	out := make(map[K]T, len(in))
	for _, v := range in {
		out[fn(v)] = v
	}
	return out
}
