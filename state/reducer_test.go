package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplace(t *testing.T) {
	assert.Equal(t, "new", Replace("old", "new"))
	assert.Nil(t, Replace("old", nil))
}

func TestAppend_Strings(t *testing.T) {
	r := Append[string]()

	got := r(nil, []string{"a"})
	assert.Equal(t, []string{"a"}, got)

	got = r(got, []string{"b", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, got)

	// single element update
	got = r(got, "d")
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestAppend_DoesNotMutateExisting(t *testing.T) {
	r := Append[string]()
	existing := []string{"a"}

	got := r(existing, []string{"b"})

	assert.Equal(t, []string{"a"}, existing)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestAppend_TypeMismatchFallsBackToReplace(t *testing.T) {
	r := Append[string]()
	got := r(42, []string{"a"})
	assert.Equal(t, []string{"a"}, got)

	got = r([]string{"a"}, 42)
	assert.Equal(t, 42, got)
}

func TestSum(t *testing.T) {
	r := Sum[int]()
	assert.Equal(t, 3, r(1, 2))
	assert.Equal(t, 2, r(nil, 2))
	assert.Equal(t, "x", r(1, "x"))
}

func TestMerge(t *testing.T) {
	got := Merge(
		map[string]any{"a": 1, "b": 2},
		map[string]any{"b": 3, "c": 4},
	)
	assert.Equal(t, map[string]any{"a": 1, "b": 3, "c": 4}, got)

	// non-map existing is discarded
	got = Merge("x", map[string]any{"a": 1})
	assert.Equal(t, map[string]any{"a": 1}, got)

	// non-map update replaces
	assert.Equal(t, "x", Merge(map[string]any{"a": 1}, "x"))
}
