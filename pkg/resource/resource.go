// Package resource maps internal models to their API representations.
package resource

// Resource transforms a model M into its response shape R.
type Resource[M, R any] func(M) R

// One transforms a single model.
func (r Resource[M, R]) One(m M) R { return r(m) }

// Many transforms a slice, returning an empty (non-nil) slice for no input
// so JSON renders [] instead of null.
func (r Resource[M, R]) Many(ms []M) []R {
	out := make([]R, len(ms))
	for i, m := range ms {
		out[i] = r(m)
	}
	return out
}
