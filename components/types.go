package components

// Component 组件类别，出现在回调的 RunInfo 中，用于区分被观测的对象。
type Component string

const (
	// ComponentOfChatModel 聊天模型。
	ComponentOfChatModel Component = "ChatModel"
	// ComponentOfTool 工具。
	ComponentOfTool Component = "Tool"
	// ComponentOfGraph 整个工作流图。
	ComponentOfGraph Component = "Graph"
	// ComponentOfNode 普通节点。
	ComponentOfNode Component = "Node"
	// ComponentOfRouter 路由节点。
	ComponentOfRouter Component = "Router"
	// ComponentOfConversation 对话记录。
	ComponentOfConversation Component = "Conversation"
)

// Typer 由组件实现，返回实现类型名称，用于展示和回调。
// 未实现时由框架通过反射推断。
type Typer interface {
	GetType() string
}

// GetType 返回组件实现的类型名称。
func GetType(component any) (string, bool) {
	if typer, ok := component.(Typer); ok {
		return typer.GetType(), true
	}
	return "", false
}
