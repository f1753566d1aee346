// Package components 定义工作流节点可以调用的协作组件。
//
// 子包：
//   - model：聊天模型，chat(messages, opts) -> message
//   - tool：工具，run(args) -> result，参数由 JSON Schema 描述
package components
