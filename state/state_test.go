package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValues_Clone(t *testing.T) {
	v := Values{"a": 1, "b": "x"}
	clone := v.Clone()

	clone["a"] = 2
	assert.Equal(t, 1, v["a"])
	assert.Equal(t, 2, clone["a"])
}

func TestValues_CloneNil(t *testing.T) {
	var v Values
	clone := v.Clone()
	assert.NotNil(t, clone)
	assert.Empty(t, clone)
}

func TestValues_TypedAccessors(t *testing.T) {
	v := Values{
		"s":     "hello",
		"i":     3,
		"i64":   int64(4),
		"f":     5.0,
		"b":     true,
		"list":  []string{"a", "b"},
		"wrong": struct{}{},
	}

	assert.Equal(t, "hello", v.String("s"))
	assert.Equal(t, "", v.String("missing"))
	assert.Equal(t, 3, v.Int("i"))
	assert.Equal(t, 4, v.Int("i64"))
	assert.Equal(t, 5, v.Int("f"))
	assert.Equal(t, 0, v.Int("wrong"))
	assert.True(t, v.Bool("b"))
	assert.Equal(t, []string{"a", "b"}, v.Strings("list"))
	assert.Nil(t, v.Strings("s"))

	val, ok := v.Get("s")
	assert.True(t, ok)
	assert.Equal(t, "hello", val)
	_, ok = v.Get("missing")
	assert.False(t, ok)
}
