package compose

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuralError(t *testing.T) {
	err := newStructuralError(KindOrphanNodes, "", "C", "D")
	assert.Equal(t, "[OrphanNodes] graph has orphan nodes: [C, D]", err.Error())
	assert.ErrorIs(t, err, ErrOrphanNodes)
	assert.NotErrorIs(t, err, ErrNoRoot)

	err = newStructuralError(KindNoRoot, "graph is empty")
	assert.Equal(t, "[NoRoot] graph has no root, graph is empty", err.Error())

	wrapped := fmt.Errorf("load: %w", newStructuralError(KindDuplicateNodeID, "", "a"))
	var se *StructuralError
	assert.True(t, errors.As(wrapped, &se))
	assert.Equal(t, []string{"a"}, se.Nodes)
	assert.ErrorIs(t, wrapped, ErrDuplicateNodeID)
}

func TestExecutionError(t *testing.T) {
	boom := errors.New("boom")

	err := newExecutionError(PhaseExecute, "a", -1, boom)
	assert.Equal(t, "[ExecutionError] execute of node 'a' failed: boom", err.Error())
	assert.ErrorIs(t, err, boom)

	err = newExecutionError(PhasePreWorkflow, "", 2, boom)
	assert.Equal(t, "[ExecutionError] pre_workflow hook #2 failed: boom", err.Error())
	assert.Nil(t, err.Path)

	inner := newExecutionError(PhaseRoute, "r", -1, newRoutingAmbiguity("r", "chose '%s'", "x"))
	outer := newExecutionError(PhaseExecute, "sub", -1, fmt.Errorf("sub graph: %w", inner))
	assert.Equal(t, []string{"sub", "r"}, outer.Path)
	assert.ErrorIs(t, outer, ErrRoutingAmbiguity)
	assert.Equal(t, "[ExecutionError] execute of node 'sub' failed: sub graph: "+
		"[ExecutionError] route of node 'r' failed: routing ambiguity: router 'r' chose 'x'"+
		"\n------------------------\nnode path: [sub, r]", outer.Error())

	// 钩子错误不累积路径
	hookErr := newExecutionError(PhasePostNode, "b", 0, inner)
	assert.Equal(t, []string{"b"}, hookErr.Path)
}
