package state

// Reducer merges an update for a single field into its existing value and
// returns the merged result. Reducers must not mutate existing in place;
// growing a slice should copy-and-append so earlier snapshots stay valid.
type Reducer func(existing, update any) any

// Replace is the default reducer: the update wins unconditionally.
func Replace(_, update any) any { return update }

// Number constrains the numeric field types supported by Sum.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Append returns a reducer that accumulates a []T field. The update may be a
// []T (concatenated) or a single T (appended). A nil existing value starts a
// new slice; an existing value of the wrong type is replaced.
func Append[T any]() Reducer {
	return func(existing, update any) any {
		if update == nil {
			return existing
		}
		cur, ok := existing.([]T)
		if existing != nil && !ok {
			return update
		}
		out := make([]T, len(cur), len(cur)+1)
		copy(out, cur)
		switch u := update.(type) {
		case []T:
			return append(out, u...)
		case T:
			return append(out, u)
		default:
			return update
		}
	}
}

// Sum returns a reducer that adds a numeric update to the existing value.
// Non-T operands fall back to Replace semantics.
func Sum[T Number]() Reducer {
	return func(existing, update any) any {
		u, ok := update.(T)
		if !ok {
			return update
		}
		e, ok := existing.(T)
		if !ok {
			return u
		}
		return e + u
	}
}

// Merge shallow-merges map[string]any updates into a map[string]any field.
// Keys present in the update overwrite existing keys. Non-map operands fall
// back to Replace semantics.
func Merge(existing, update any) any {
	u, ok := update.(map[string]any)
	if !ok {
		return update
	}
	e, ok := existing.(map[string]any)
	if !ok {
		e = nil
	}
	out := make(map[string]any, len(e)+len(u))
	for k, v := range e {
		out[k] = v
	}
	for k, v := range u {
		out[k] = v
	}
	return out
}
