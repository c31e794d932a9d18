package state

// Values is a snapshot of graph state: named fields flowing between nodes.
// A Values passed to a node is a private copy; the only way to change graph
// state is to return an update that the schema merges via reducers.
type Values map[string]any

// Clone returns a shallow copy. Field values themselves are not deep-copied;
// reducers are expected to treat existing values as read-only and allocate
// when they grow collections.
func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	clone := make(Values, len(v))
	for k, val := range v {
		clone[k] = val
	}
	return clone
}

// Get returns the raw value and an existence flag.
func (v Values) Get(key string) (any, bool) {
	val, ok := v[key]
	return val, ok
}

// String returns the field as a string, or "" when absent or mistyped.
func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// Int returns the field as an int. Float64 values (e.g. from decoded JSON)
// are truncated. Absent or mistyped fields yield 0.
func (v Values) Int(key string) int {
	switch n := v[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// Bool returns the field as a bool, or false when absent or mistyped.
func (v Values) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}

// Strings returns the field as a []string, or nil when absent or mistyped.
func (v Values) Strings(key string) []string {
	s, _ := v[key].([]string)
	return s
}
