/*
 * compose 包 - 工作流图的构建、校验与执行
 *
 * 概述：
 *   以有向图编排离散的工作单元。普通节点（Node）完成工作后沿静态边继续，
 *   路由节点（Router）根据运行状态选择下一个节点或终止（HALT）。
 *
 * 生命周期：
 *   NewGraph → AddNode / AddEdge / AddRouter → Validate → Execute
 *     - 构建：任何一次构建失败都会被记录，之后的构建、校验和执行都返回同一个错误
 *     - 校验：孤立节点、唯一根节点、可达性、纯边环路
 *     - 执行：Idle → Running → Completed | Halted | Failed
 *
 * 执行模型：
 *   - 从根节点深度优先、单协程顺序遍历
 *   - 扇出时按边的添加顺序依次访问，第一个终止或失败立即向上传播，其余分支不再执行
 *   - 到达 HALT 的分支以 Halted 结束，Halted 不是错误
 *   - 每个节点外围依次执行 pre 钩子、输入校验、节点行为、post 钩子
 *   - 只有完整遍历成功后才执行 post_workflow 钩子
 *
 * 每次执行拥有独立的 *State，同一个图可以被多个协程并发执行。
 *
 * 示例：
 *
 *	g := compose.NewGraph(compose.WithGraphName("triage"))
 *	_ = g.AddNode("fetch", fetchNode)
 *	_ = g.AddNode("page", pageNode)
 *	_ = g.AddRouter("classify", classifier, []compose.Route{
 *		{Label: "urgent", Target: "page"},
 *		{Label: "ignore", Target: compose.HALT},
 *	})
 *	_ = g.AddEdge("fetch", "classify")
 *	_ = g.AddEdge("page", compose.HALT)
 *
 *	result, err := g.Execute(ctx)
 */
package compose
