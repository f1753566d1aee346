package gmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcat(t *testing.T) {
	assert.Equal(t, map[string]int{}, Concat[string, int]())
	assert.Equal(t, map[string]int{"a": 2, "b": 3}, Concat(map[string]int{"a": 1}, nil, map[string]int{"a": 2, "b": 3}))
}

func TestClone(t *testing.T) {
	var nilMap map[string]int
	assert.Nil(t, Clone(nilMap))

	src := map[string]int{"a": 1}
	dst := Clone(src)
	dst["a"] = 2
	assert.Equal(t, 1, src["a"])
}
