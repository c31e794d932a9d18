package state

// Field declares how one named state field behaves across merges.
type Field struct {
	// Reducer merges node updates into the field. Nil means Replace.
	Reducer Reducer

	// Default, when non-nil, seeds the field at the start of a run before
	// the caller's input is applied.
	Default func() any
}

// Schema maps field names to their merge behavior. Fields not declared in
// the schema are still carried in Values and merged with Replace semantics,
// matching the forgiving behavior of untyped state maps.
type Schema map[string]Field

// Apply merges a partial update into the current values and returns a new
// snapshot. Neither input is mutated. A nil update yields a plain clone.
func (s Schema) Apply(cur Values, update Values) Values {
	next := cur.Clone()
	for k, v := range update {
		if f, ok := s[k]; ok && f.Reducer != nil {
			next[k] = f.Reducer(next[k], v)
			continue
		}
		next[k] = v
	}
	return next
}

// Init seeds declared defaults and then applies the caller's input through
// the reducers, producing the state a run starts from.
func (s Schema) Init(input Values) Values {
	values := make(Values, len(s)+len(input))
	for k, f := range s {
		if f.Default != nil {
			values[k] = f.Default()
		}
	}
	return s.Apply(values, input)
}
