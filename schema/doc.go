// Package schema 定义工作流各协作方之间传递的数据结构。
//
// 包括：
//   - Message：对话消息，支持 FString、GoTemplate、Jinja2 三种模板渲染
//   - ToolInfo / ParamsOneOf：工具描述及其到 JSON Schema 的转换
package schema
