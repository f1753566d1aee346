// Package react 基于 compose 图实现的 ReAct 智能体。
//
// 图结构：
//
//	init → model → decide ─tools→ tools → after_tools ─continue→ model
//	                  └─done→ HALT               └─direct→ HALT
//
// decide 在模型回复中没有工具调用时以 Halt(reply) 结束运行；
// after_tools 在命中直接返回的工具时以 Halt(toolMessage) 结束运行。
package react
