package compose

/*
 * validate.go - 图结构校验
 *
 * 校验按以下顺序进行，返回第一个失败项：
 *   1. 孤立节点：未出现在任何边或路由中的节点（ErrOrphanNodes）
 *   2. 唯一根：边与路由上入度为 0 的节点恰好一个（ErrNoRoot / ErrMultipleRoots）
 *   3. 可达性：所有节点都能从根沿边与路由到达，否则同样视为孤立节点
 *   4. 纯边环路：只由静态边构成的环路永远不会终止（ErrCycle）
 *
 * 经过路由的环路是允许的，由路由决定何时离开，执行时以最大步数兜底。
 */

import (
	"fmt"
	"strings"
)

// Validate 校验图的结构，通过后冻结结构。
// 已有构建错误时直接返回该错误；重复调用只校验一次。
func (g *Graph) Validate() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.buildError != nil {
		return g.buildError
	}
	if g.validated {
		return nil
	}
	if err := g.validate(); err != nil {
		return err
	}
	g.validated = true
	return nil
}

// Build 等同于 Validate，图没有单独的编译产物。
func (g *Graph) Build() error {
	return g.Validate()
}

func (g *Graph) validate() error {
	if len(g.nodes) == 0 {
		return newStructuralError(KindNoRoot, "graph is empty")
	}

	if orphans := g.orphans(); len(orphans) > 0 {
		return newStructuralError(KindOrphanNodes, "", orphans...)
	}

	roots := g.roots()
	switch {
	case len(roots) == 0:
		return newStructuralError(KindNoRoot, "every node has an incoming edge or route")
	case len(roots) > 1:
		return newStructuralError(KindMultipleRoots, "", roots...)
	}

	for _, router := range g.nodeOrder {
		for _, target := range g.routeTargets(router) {
			if _, ok := g.nodes[target]; !ok && target != HALT {
				return newStructuralError(KindInvalidRouteTarget,
					fmt.Sprintf("route targets unknown node '%s'", target), router)
			}
		}
	}

	if unreachable := g.unreachable(roots[0]); len(unreachable) > 0 {
		return newStructuralError(KindOrphanNodes, fmt.Sprintf("unreachable from root '%s'", roots[0]), unreachable...)
	}

	if loops := g.findPlainLoops(); len(loops) > 0 {
		return newStructuralError(KindCycle, formatLoops(loops))
	}

	g.routeCycle = g.hasCycle()
	return nil
}

// hasCycle 沿边与路由判断图中是否存在环路。
// 仅由静态边构成的环路已被拒绝，因此这里找到的环路必然经过路由。
func (g *Graph) hasCycle() bool {
	const (
		visiting = 1
		done     = 2
	)
	color := make(map[string]int, len(g.nodes))
	var dfs func(key string) bool
	dfs = func(key string) bool {
		color[key] = visiting
		for _, next := range g.forwardTargets(key) {
			if next == HALT {
				continue
			}
			switch color[next] {
			case visiting:
				return true
			case 0:
				if dfs(next) {
					return true
				}
			}
		}
		color[key] = done
		return false
	}

	for _, key := range g.nodeOrder {
		if color[key] == 0 && dfs(key) {
			return true
		}
	}
	return false
}

// orphans 返回未在任何边或路由中出现的节点，按添加顺序。
func (g *Graph) orphans() []string {
	mentioned := make(map[string]bool, len(g.nodes))
	for _, e := range g.edges {
		mentioned[e.From] = true
		mentioned[e.To] = true
	}
	for router, table := range g.routes {
		if table.Len() == 0 {
			continue
		}
		mentioned[router] = true
		for _, target := range g.routeTargets(router) {
			mentioned[target] = true
		}
	}

	var orphans []string
	for _, key := range g.nodeOrder {
		if !mentioned[key] {
			orphans = append(orphans, key)
		}
	}
	return orphans
}

// roots 返回在边与路由上入度为 0 的节点，按添加顺序。
// 执行器在执行前独立调用它，不依赖校验结果。
func (g *Graph) roots() []string {
	incoming := make(map[string]int, len(g.nodes))
	for _, e := range g.edges {
		if e.To != HALT {
			incoming[e.To]++
		}
	}
	for router := range g.routes {
		for _, target := range g.routeTargets(router) {
			if target != HALT {
				incoming[target]++
			}
		}
	}

	var roots []string
	for _, key := range g.nodeOrder {
		if incoming[key] == 0 {
			roots = append(roots, key)
		}
	}
	return roots
}

// unreachable 返回从 root 出发沿边与路由无法到达的节点，按添加顺序。
func (g *Graph) unreachable(root string) []string {
	seen := map[string]bool{root: true}
	queue := []string{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.forwardTargets(cur) {
			if next == HALT || seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}

	var ret []string
	for _, key := range g.nodeOrder {
		if !seen[key] {
			ret = append(ret, key)
		}
	}
	return ret
}

// findPlainLoops 先按拓扑排序剥离静态边上入度为 0 的节点，
// 剩余节点必然处于环路上或位于环路下游，再从它们出发用 DFS 找出环路。
func (g *Graph) findPlainLoops() [][]string {
	indegree := make(map[string]int, len(g.nodes))
	for _, e := range g.edges {
		if e.To != HALT {
			indegree[e.To]++
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, key := range g.nodeOrder {
		if indegree[key] == 0 {
			queue = append(queue, key)
		}
	}
	removed := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		removed++
		for _, next := range g.successors[cur] {
			if next == HALT {
				continue
			}
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if removed == len(g.nodes) {
		return nil
	}

	var loopStarts []string
	for _, key := range g.nodeOrder {
		if indegree[key] > 0 {
			loopStarts = append(loopStarts, key)
		}
	}
	return g.findLoops(loopStarts)
}

func (g *Graph) findLoops(startNodes []string) [][]string {
	visited := map[string]bool{}
	var dfs func(path []string) [][]string
	dfs = func(path []string) [][]string {
		var ret [][]string
		pathEnd := path[len(path)-1]
		for _, successor := range g.successors[pathEnd] {
			if successor == HALT {
				continue
			}

			looped := false
			for i, node := range path {
				if node == successor {
					loop := make([]string, 0, len(path)-i+1)
					loop = append(loop, path[i:]...)
					ret = append(ret, append(loop, successor))
					looped = true
					break
				}
			}
			if looped || visited[successor] {
				continue
			}
			visited[successor] = true

			next := make([]string, len(path), len(path)+1)
			copy(next, path)
			ret = append(ret, dfs(append(next, successor))...)
		}
		return ret
	}

	var ret [][]string
	for _, node := range startNodes {
		if !visited[node] {
			visited[node] = true
			ret = append(ret, dfs([]string{node})...)
		}
	}
	return ret
}

func formatLoops(loops [][]string) string {
	sb := strings.Builder{}
	for _, loop := range loops {
		if len(loop) == 0 {
			continue
		}
		sb.WriteString("[")
		sb.WriteString(strings.Join(loop, "->"))
		sb.WriteString("]")
	}
	return sb.String()
}
