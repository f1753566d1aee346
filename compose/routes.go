package compose

// HALT 终止标记，作为边或路由的目标时表示该分支到此结束。保留字，不能用作节点 key。
const HALT = "halt"

// Route 路由表中的一项：结果标签 → 目标节点（或 HALT）。
type Route struct {
	Label  string `json:"label" yaml:"label"`
	Target string `json:"target" yaml:"target"`
}

type decisionKind uint8

const (
	decisionContinue decisionKind = iota + 1
	decisionHalt
)

// Decision 路由的决策，只能由 Continue 或 Halt 构造；零值视为路由歧义。
type Decision struct {
	kind   decisionKind
	target string
	result any
}

// Continue 继续执行 next。next 可以是路由表中的结果标签，也可以是路由表声明过的目标节点。
func Continue(next string) Decision {
	return Decision{kind: decisionContinue, target: next}
}

// Halt 以 result 终止当前运行，运行结果为 Halted。
func Halt(result any) Decision {
	return Decision{kind: decisionHalt, result: result}
}

// IsContinue 是否为继续决策。
func (d Decision) IsContinue() bool {
	return d.kind == decisionContinue
}

// IsHalt 是否为终止决策。
func (d Decision) IsHalt() bool {
	return d.kind == decisionHalt
}

// Next 继续决策的目标。
func (d Decision) Next() string {
	return d.target
}

// Result 终止决策携带的结果。
func (d Decision) Result() any {
	return d.result
}

// String 便于日志输出。
func (d Decision) String() string {
	switch d.kind {
	case decisionContinue:
		return "Continue(" + d.target + ")"
	case decisionHalt:
		return "Halt"
	default:
		return "Invalid"
	}
}
