package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState(t *testing.T) {
	initial := map[string]any{"alert": "disk full", "severity": 2}
	s := NewState(initial)
	s.Set("owner", "sre").Delete("severity")

	// 初始值不受影响
	assert.Len(t, initial, 2)
	assert.Equal(t, []string{"alert", "owner"}, s.Keys())
	assert.Equal(t, 2, s.Len())
	assert.Nil(t, s.Graph())

	v, ok := s.Get("alert")
	assert.True(t, ok)
	assert.Equal(t, "disk full", v)

	owner, ok := GetValue[string](s, "owner")
	assert.True(t, ok)
	assert.Equal(t, "sre", owner)

	_, ok = GetValue[int](s, "owner")
	assert.False(t, ok)
	_, ok = GetValue[int](s, "missing")
	assert.False(t, ok)

	c := s.Clone()
	c.Set("alert", "cpu")
	assert.Equal(t, "disk full", s.Values()["alert"])

	values := s.Values()
	values["alert"] = "changed"
	v, _ = s.Get("alert")
	assert.Equal(t, "disk full", v)

	assert.Equal(t, 0, NewState(nil).Len())
}

func TestDecision(t *testing.T) {
	c := Continue("page")
	assert.True(t, c.IsContinue())
	assert.False(t, c.IsHalt())
	assert.Equal(t, "page", c.Next())
	assert.Equal(t, "Continue(page)", c.String())

	h := Halt(42)
	assert.True(t, h.IsHalt())
	assert.Equal(t, 42, h.Result())
	assert.Equal(t, "Halt", h.String())

	var zero Decision
	assert.False(t, zero.IsContinue())
	assert.False(t, zero.IsHalt())
	assert.Equal(t, "Invalid", zero.String())
}
