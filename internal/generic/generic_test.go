package generic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fetchNode struct{}

func (f *fetchNode) Fetch() {}

type handlerFunc func()

func TestNewInstance(t *testing.T) {
	assert.NotNil(t, NewInstance[*fetchNode]())
	assert.NotNil(t, NewInstance[**fetchNode]())
	assert.NotNil(t, *NewInstance[**fetchNode]())
	assert.NotNil(t, NewInstance[map[string]any]())
	assert.NotNil(t, NewInstance[[]int]())
	assert.Equal(t, 0, NewInstance[int]())
}

func TestIsNil(t *testing.T) {
	var p *fetchNode
	var f func()
	assert.True(t, IsNil(nil))
	assert.True(t, IsNil(p))
	assert.True(t, IsNil(f))
	assert.False(t, IsNil(&fetchNode{}))
	assert.False(t, IsNil(fetchNode{}))
	assert.False(t, IsNil(1))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "fetchNode", TypeName(&fetchNode{}))
	assert.Equal(t, "fetchNode", TypeName(fetchNode{}))
	assert.Equal(t, "ToUpper", TypeName(strings.ToUpper))
	assert.Equal(t, "Fetch", TypeName((&fetchNode{}).Fetch))
	assert.Equal(t, "handlerFunc", TypeName(handlerFunc(func() {})))
	assert.Equal(t, "", TypeName(func() {}))
	assert.Equal(t, "", TypeName(nil))
}
