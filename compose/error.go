package compose

/*
 * error.go - 错误体系
 *
 * 核心组件：
 *   - StructuralError: 构建与校验阶段的结构错误，可通过 errors.Is 与哨兵错误比较
 *   - ExecutionError: 执行阶段的错误，记录出错的阶段、节点、钩子序号和节点路径
 *   - ErrRoutingAmbiguity / ErrExceedMaxSteps: 以 ExecutionError 形式返回的执行期哨兵错误
 *
 * 嵌套执行（节点内部执行另一个图）时，内层 ExecutionError 的节点路径会被累积到外层。
 */

import (
	"errors"
	"fmt"
	"strings"
)

// StructuralErrorKind 结构错误类别。
type StructuralErrorKind string

const (
	KindDuplicateNodeID    StructuralErrorKind = "DuplicateNodeId"
	KindUnknownNode        StructuralErrorKind = "UnknownNode"
	KindInvalidBehavior    StructuralErrorKind = "InvalidBehavior"
	KindInvalidRouteTarget StructuralErrorKind = "InvalidRouteTarget"
	KindNoRoot             StructuralErrorKind = "NoRoot"
	KindMultipleRoots      StructuralErrorKind = "MultipleRoots"
	KindOrphanNodes        StructuralErrorKind = "OrphanNodes"
	KindInvalidNodeKey     StructuralErrorKind = "InvalidNodeKey"
	KindInvalidEdge        StructuralErrorKind = "InvalidEdge"
	KindCycle              StructuralErrorKind = "Cycle"
)

var (
	ErrDuplicateNodeID    = errors.New("duplicate node id")
	ErrUnknownNode        = errors.New("unknown node")
	ErrInvalidBehavior    = errors.New("invalid behavior")
	ErrInvalidRouteTarget = errors.New("invalid route target")
	ErrNoRoot             = errors.New("graph has no root")
	ErrMultipleRoots      = errors.New("graph has multiple roots")
	ErrOrphanNodes        = errors.New("graph has orphan nodes")
	ErrInvalidNodeKey     = errors.New("invalid node key")
	ErrInvalidEdge        = errors.New("invalid edge")
	// ErrCycle 仅由普通边构成的环路，这样的环路执行时不会终止。
	ErrCycle = errors.New("graph has a cycle of plain edges")
)

var kindSentinels = map[StructuralErrorKind]error{
	KindDuplicateNodeID:    ErrDuplicateNodeID,
	KindUnknownNode:        ErrUnknownNode,
	KindInvalidBehavior:    ErrInvalidBehavior,
	KindInvalidRouteTarget: ErrInvalidRouteTarget,
	KindNoRoot:             ErrNoRoot,
	KindMultipleRoots:      ErrMultipleRoots,
	KindOrphanNodes:        ErrOrphanNodes,
	KindInvalidNodeKey:     ErrInvalidNodeKey,
	KindInvalidEdge:        ErrInvalidEdge,
	KindCycle:              ErrCycle,
}

// StructuralError 构建或校验阶段发现的结构错误。
// Nodes 为涉及的节点，按节点添加顺序排列。
type StructuralError struct {
	Kind   StructuralErrorKind
	Nodes  []string
	Detail string
}

func newStructuralError(kind StructuralErrorKind, detail string, nodes ...string) *StructuralError {
	return &StructuralError{Kind: kind, Nodes: nodes, Detail: detail}
}

func (e *StructuralError) Error() string {
	sb := strings.Builder{}
	sb.WriteString("[" + string(e.Kind) + "] ")
	sb.WriteString(kindSentinels[e.Kind].Error())
	if len(e.Nodes) > 0 {
		sb.WriteString(": [" + strings.Join(e.Nodes, ", ") + "]")
	}
	if e.Detail != "" {
		sb.WriteString(", " + e.Detail)
	}
	return sb.String()
}

// Unwrap 返回对应的哨兵错误，使 errors.Is(err, ErrOrphanNodes) 等判断成立。
func (e *StructuralError) Unwrap() error {
	return kindSentinels[e.Kind]
}

// ====== 执行错误 ======

var (
	// ErrRoutingAmbiguity 路由返回了无法识别的决策：零值决策，或不在路由表中的目标。
	ErrRoutingAmbiguity = errors.New("routing ambiguity")
	// ErrExceedMaxSteps 节点访问次数超过上限。
	ErrExceedMaxSteps = errors.New("exceeds max steps")
	// ErrGraphValidated 图已通过校验，结构不可再修改。
	ErrGraphValidated = errors.New("graph has been validated, cannot be modified")
)

// Phase 执行错误发生的阶段。
type Phase string

const (
	PhasePreWorkflow   Phase = "pre_workflow"
	PhasePreNode       Phase = "pre_node"
	PhaseValidateInput Phase = "validate_input"
	PhaseExecute       Phase = "execute"
	PhaseRoute         Phase = "route"
	PhasePostNode      Phase = "post_node"
	PhasePostWorkflow  Phase = "post_workflow"
	PhaseTraverse      Phase = "traverse"
)

// ExecutionError 执行阶段的错误。
// 原因 Err 对核心不透明，可通过 errors.Is / errors.As 继续解包。
type ExecutionError struct {
	Phase Phase
	// Node 出错的节点；工作流级钩子出错时为空。
	Node string
	// Hook 出错钩子在其列表中的序号，非钩子错误为 -1。
	Hook int
	// Path 从外层到内层的节点路径，嵌套执行时包含多个节点。
	Path []string
	Err  error
}

func newExecutionError(phase Phase, node string, hook int, err error) *ExecutionError {
	ee := &ExecutionError{
		Phase: phase,
		Node:  node,
		Hook:  hook,
		Err:   err,
	}
	if node != "" {
		ee.Path = []string{node}
	}

	// 节点内部执行子图失败时，累积子图中的节点路径
	var inner *ExecutionError
	if (phase == PhaseExecute || phase == PhaseRoute) && errors.As(err, &inner) {
		ee.Path = append(ee.Path, inner.Path...)
	}
	return ee
}

func (e *ExecutionError) Error() string {
	sb := strings.Builder{}
	sb.WriteString("[ExecutionError] ")
	sb.WriteString(string(e.Phase))
	if e.Hook >= 0 {
		sb.WriteString(fmt.Sprintf(" hook #%d", e.Hook))
	}
	if e.Node != "" {
		sb.WriteString(fmt.Sprintf(" of node '%s'", e.Node))
	}
	sb.WriteString(" failed: ")
	sb.WriteString(e.Err.Error())

	if len(e.Path) > 1 {
		sb.WriteString("\n------------------------\n")
		sb.WriteString("node path: [" + strings.Join(e.Path, ", ") + "]")
	}
	return sb.String()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func newRoutingAmbiguity(router string, format string, args ...any) error {
	return fmt.Errorf("%w: router '%s' %s", ErrRoutingAmbiguity, router, fmt.Sprintf(format, args...))
}
