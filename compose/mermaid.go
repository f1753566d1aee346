package compose

/*
 * mermaid.go - 图示导出
 *
 * 输出 mermaid flowchart 文本：
 *   - 普通节点为方框 key["Type"]，路由节点为菱形 key{"Type"}
 *   - 静态边 a --> b，指向 HALT 的边 a --o halt_a(((HALT)))
 *   - 路由 r -->|label| b，指向 HALT 的路由 r --o|label| halt_r(((HALT)))
 *
 * 节点 key 不是合法的 mermaid ID 时生成 n<序号>；生成的 ID（含 halt_ 节点）
 * 与已有 key 冲突时追加 _<数字> 后缀。
 *
 * 节点、边、路由均按添加顺序输出，同一个图多次导出的结果逐字节相同。
 */

import (
	"fmt"
	"regexp"
	"strings"
)

var mermaidIDPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// mermaid 保留字不能直接作为节点 ID
var mermaidReserved = map[string]bool{
	"end":       true,
	"graph":     true,
	"subgraph":  true,
	"flowchart": true,
	"style":     true,
	"class":     true,
	"click":     true,
}

// Mermaid 将图导出为 mermaid flowchart 文本。
//
// 节点标签为行为的类型标识：实现了 components.Typer 时取 GetType，否则取实现类型名；
// NodeFunc / RouterFunc 包装的匿名函数标为 "NodeFunc" / "RouterFunc"。
// 无法得到类型标识时使用节点的展示名称。
func Mermaid(g *Graph) string {
	return g.Info().Mermaid()
}

// Mermaid 见包级函数 Mermaid。
func (g *Graph) Mermaid() string {
	return Mermaid(g)
}

// Mermaid 将快照导出为 mermaid flowchart 文本，不依赖图本身。
func (info *GraphInfo) Mermaid() string {
	ids := newMermaidIDs(info.Nodes)

	sb := strings.Builder{}
	sb.WriteString("flowchart TD\n")

	for _, n := range info.Nodes {
		label := mermaidLabel(n)
		if n.Kind == NodeKindRouter {
			sb.WriteString(fmt.Sprintf("    %s{\"%s\"}\n", ids.node[n.Key], label))
		} else {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", ids.node[n.Key], label))
		}
	}

	for _, e := range info.Edges {
		from := ids.node[e.From]
		if e.To == HALT {
			sb.WriteString(fmt.Sprintf("    %s --o %s\n", from, ids.halt(e.From)))
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, ids.node[e.To]))
	}

	for _, n := range info.Nodes {
		from := ids.node[n.Key]
		for _, r := range n.Routes {
			label := escapeMermaid(r.Label)
			if r.Target == HALT {
				sb.WriteString(fmt.Sprintf("    %s --o|\"%s\"| %s\n", from, label, ids.halt(n.Key)))
				continue
			}
			sb.WriteString(fmt.Sprintf("    %s -->|\"%s\"| %s\n", from, label, ids.node[r.Target]))
		}
	}

	return sb.String()
}

// mermaidIDs 一次导出中节点 key 到 mermaid ID 的分配。
type mermaidIDs struct {
	node  map[string]string
	halts map[string]string
	taken map[string]bool
}

// newMermaidIDs 可直接用作 ID 的 key 优先原样保留，其余 key 再按添加序号生成 ID。
func newMermaidIDs(nodes []NodeInfo) *mermaidIDs {
	ids := &mermaidIDs{
		node:  make(map[string]string, len(nodes)),
		halts: make(map[string]string),
		taken: make(map[string]bool, len(nodes)),
	}
	for _, n := range nodes {
		if validMermaidID(n.Key) {
			ids.node[n.Key] = n.Key
			ids.taken[n.Key] = true
		}
	}
	for i, n := range nodes {
		if _, ok := ids.node[n.Key]; !ok {
			ids.node[n.Key] = ids.reserve(fmt.Sprintf("n%d", i))
		}
	}
	return ids
}

// halt 返回 key 对应的 HALT 节点，同一来源多次使用得到同一个 ID。
func (ids *mermaidIDs) halt(key string) string {
	id, ok := ids.halts[key]
	if !ok {
		id = ids.reserve("halt_" + ids.node[key])
		ids.halts[key] = id
	}
	return id + "(((HALT)))"
}

func (ids *mermaidIDs) reserve(base string) string {
	id := base
	for i := 2; ids.taken[id]; i++ {
		id = fmt.Sprintf("%s_%d", base, i)
	}
	ids.taken[id] = true
	return id
}

func validMermaidID(key string) bool {
	return mermaidIDPattern.MatchString(key) && !mermaidReserved[strings.ToLower(key)]
}

// mermaidLabel 节点标签为行为的类型标识，无法推断类型时使用展示名称。
func mermaidLabel(n NodeInfo) string {
	if n.Type == "" {
		return escapeMermaid(n.Name)
	}
	return escapeMermaid(n.Type)
}

func escapeMermaid(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
