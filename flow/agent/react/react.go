package react

import (
	"context"
	"errors"
	"fmt"

	"github.com/favbox/avalon/callbacks"
	"github.com/favbox/avalon/components"
	"github.com/favbox/avalon/components/model"
	"github.com/favbox/avalon/components/tool"
	"github.com/favbox/avalon/compose"
	"github.com/favbox/avalon/conversation"
	"github.com/favbox/avalon/internal/generic"
	"github.com/favbox/avalon/internal/gmap"
	"github.com/favbox/avalon/schema"
)

// 图中的节点标识符。
const (
	nodeKeyInit       = "init"
	nodeKeyModel      = "model"
	nodeKeyDecide     = "decide"
	nodeKeyTools      = "tools"
	nodeKeyAfterTools = "after_tools"
)

// 路由标签。
const (
	routeTools    = "tools"
	routeDone     = "done"
	routeContinue = "continue"
	routeDirect   = "direct"
)

// 状态中的键。
const (
	stateKeyInput        = "react.input"
	stateKeyOptions      = "react.options"
	stateKeyConversation = "react.conversation"
	stateKeyReply        = "react.reply"
	stateKeyDirect       = "react.direct"
)

const (
	GraphName     = "ReActAgent"
	ModelNodeName = "ChatModel"
	ToolsNodeName = "Tools"
)

// ErrNoReply 运行结束时没有得到回复。
var ErrNoReply = errors.New("react agent finished without a reply")

// MessageModifier 在调用模型前修改输入消息，不影响对话记录本身。
type MessageModifier func(ctx context.Context, input []*schema.Message) []*schema.Message

// AgentConfig ReAct 智能体配置。
type AgentConfig struct {
	// ToolCallingModel 支持工具调用的聊天模型。
	ToolCallingModel model.ToolCallingChatModel

	// Tools 可调用的工具，必须实现 tool.InvokableTool。
	Tools []tool.BaseTool

	// SystemPrompt 系统提示词模板，为空时不写入系统消息。
	SystemPrompt string
	// PromptFormat 系统提示词的模板格式，默认 schema.FString。
	PromptFormat schema.FormatType
	// PromptValues 渲染系统提示词的变量。
	PromptValues map[string]any

	// MessageModifier 每次模型调用前的消息修饰器。
	MessageModifier MessageModifier

	// MaxStep 最多访问的节点次数，默认为图的节点数 + 10。
	MaxStep int `json:"max_step"`

	// ToolReturnDirectly 调用后直接以工具结果结束的工具名称。
	ToolReturnDirectly map[string]struct{}

	// ConversationHooks 智能体新建对话时使用的 pre 钩子。
	ConversationHooks []conversation.PreAddHook

	// GraphName 图名称，默认 "ReActAgent"。
	GraphName string
	// ModelNodeName 模型节点名称，默认 "ChatModel"。
	ModelNodeName string
	// ToolsNodeName 工具节点名称，默认 "Tools"。
	ToolsNodeName string
}

// Agent ReAct 智能体：调用模型，执行模型要求的工具，把结果交回模型，直到模型给出最终回复。
//
// 使用示例：
//
//	agent, err := react.NewAgent(ctx, &react.AgentConfig{
//		ToolCallingModel: myModel,
//		Tools:            []tool.BaseTool{lookupTool},
//		SystemPrompt:     "你是{team}的值班助手",
//		PromptValues:     map[string]any{"team": "SRE"},
//	})
//	if err != nil {...}
//	msg, err := agent.Generate(ctx, []*schema.Message{schema.UserMessage("db-1 磁盘告警")})
type Agent struct {
	config    *AgentConfig
	graph     *compose.Graph
	chatModel model.BaseChatModel
	tools     map[string]tool.InvokableTool
	modelType string
}

// NewAgent 创建 ReAct 智能体并校验其图结构。
func NewAgent(ctx context.Context, config *AgentConfig) (*Agent, error) {
	if config == nil || config.ToolCallingModel == nil {
		return nil, errors.New("react agent requires a tool calling chat model")
	}

	a := &Agent{
		config:    config,
		tools:     make(map[string]tool.InvokableTool, len(config.Tools)),
		modelType: generic.TypeName(config.ToolCallingModel),
	}
	if typ, ok := components.GetType(config.ToolCallingModel); ok {
		a.modelType = typ
	}

	toolInfos := make([]*schema.ToolInfo, 0, len(config.Tools))
	for _, t := range config.Tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get tool info failed: %w", err)
		}
		it, ok := t.(tool.InvokableTool)
		if !ok {
			return nil, fmt.Errorf("tool '%s' is not invokable", info.Name)
		}
		if _, ok = a.tools[info.Name]; ok {
			return nil, fmt.Errorf("tool '%s' is duplicated", info.Name)
		}
		a.tools[info.Name] = it
		toolInfos = append(toolInfos, info)
	}

	a.chatModel = config.ToolCallingModel
	if len(toolInfos) > 0 {
		cm, err := config.ToolCallingModel.WithTools(toolInfos)
		if err != nil {
			return nil, fmt.Errorf("bind tools to chat model failed: %w", err)
		}
		a.chatModel = cm
	}

	graph, err := a.buildGraph()
	if err != nil {
		return nil, err
	}
	a.graph = graph
	return a, nil
}

func (a *Agent) buildGraph() (*compose.Graph, error) {
	c := a.config
	graphName := GraphName
	if c.GraphName != "" {
		graphName = c.GraphName
	}
	modelNodeName := ModelNodeName
	if c.ModelNodeName != "" {
		modelNodeName = c.ModelNodeName
	}
	toolsNodeName := ToolsNodeName
	if c.ToolsNodeName != "" {
		toolsNodeName = c.ToolsNodeName
	}

	g := compose.NewGraph(compose.WithGraphName(graphName))

	steps := []func() error{
		func() error { return g.AddNode(nodeKeyInit, compose.NodeFunc(a.prepare)) },
		func() error {
			return g.AddNode(nodeKeyModel, compose.NodeFunc(a.generate), compose.WithNodeName(modelNodeName))
		},
		func() error {
			return g.AddNode(nodeKeyTools, compose.NodeFunc(a.invokeTools), compose.WithNodeName(toolsNodeName))
		},
		func() error {
			return g.AddRouter(nodeKeyDecide, compose.RouterFunc(a.decide), []compose.Route{
				{Label: routeTools, Target: nodeKeyTools},
				{Label: routeDone, Target: compose.HALT},
			})
		},
		func() error {
			return g.AddRouter(nodeKeyAfterTools, compose.RouterFunc(a.afterTools), []compose.Route{
				{Label: routeContinue, Target: nodeKeyModel},
				{Label: routeDirect, Target: compose.HALT},
			})
		},
		func() error { return g.AddEdge(nodeKeyInit, nodeKeyModel) },
		func() error { return g.AddEdge(nodeKeyModel, nodeKeyDecide) },
		func() error { return g.AddEdge(nodeKeyTools, nodeKeyAfterTools) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Generate 以 input 作为新的用户输入运行智能体，返回最终回复。
// 命中直接返回的工具时，返回该工具的结果消息。
func (a *Agent) Generate(ctx context.Context, input []*schema.Message, opts ...AgentOption) (*schema.Message, error) {
	o := &agentOptions{}
	for _, opt := range opts {
		opt(o)
	}

	runOpts := make([]compose.RunOption, 0, len(o.runOptions)+2)
	if a.config.MaxStep > 0 {
		runOpts = append(runOpts, compose.WithMaxSteps(a.config.MaxStep))
	}
	runOpts = append(runOpts, o.runOptions...)
	runOpts = append(runOpts, compose.WithValues(map[string]any{
		stateKeyInput:   input,
		stateKeyOptions: o,
	}))

	result, err := a.graph.Execute(ctx, runOpts...)
	if err != nil {
		return nil, err
	}

	if msg, ok := result.HaltResult.(*schema.Message); ok && msg != nil {
		return msg, nil
	}
	return nil, fmt.Errorf("%w: run ended as %s", ErrNoReply, result.Status)
}

// ExportGraph 返回智能体内部已校验的图，可用于导出图示。
func (a *Agent) ExportGraph() *compose.Graph {
	return a.graph
}

func optionsFromState(state *compose.State) *agentOptions {
	if o, ok := compose.GetValue[*agentOptions](state, stateKeyOptions); ok && o != nil {
		return o
	}
	return &agentOptions{}
}

func conversationFromState(state *compose.State) (*conversation.Conversation, error) {
	conv, ok := compose.GetValue[*conversation.Conversation](state, stateKeyConversation)
	if !ok || conv == nil {
		return nil, errors.New("conversation is not initialized")
	}
	return conv, nil
}

// prepare 准备对话：必要时写入系统提示词，再追加本次输入。
func (a *Agent) prepare(ctx context.Context, state *compose.State) (*compose.State, error) {
	o := optionsFromState(state)

	conv := o.conversation
	if conv == nil {
		conv = conversation.New(conversation.WithPreAddHooks(a.config.ConversationHooks...))
	}

	if conv.Len() == 0 && a.config.SystemPrompt != "" {
		values := gmap.Concat(a.config.PromptValues, o.values)
		msgs, err := schema.SystemMessage(a.config.SystemPrompt).Format(ctx, values, a.config.PromptFormat)
		if err != nil {
			return nil, fmt.Errorf("render system prompt failed: %w", err)
		}
		if err = conv.AddMessages(ctx, msgs...); err != nil {
			return nil, err
		}
	}

	input, _ := compose.GetValue[[]*schema.Message](state, stateKeyInput)
	if err := conv.AddMessages(ctx, input...); err != nil {
		return nil, err
	}

	return state.Set(stateKeyConversation, conv), nil
}

// generate 调用聊天模型并把回复写入对话。
func (a *Agent) generate(ctx context.Context, state *compose.State) (*compose.State, error) {
	conv, err := conversationFromState(state)
	if err != nil {
		return nil, err
	}

	msgs := conv.Messages()
	if a.config.MessageModifier != nil {
		msgs = a.config.MessageModifier(ctx, msgs)
	}

	ctx = callbacks.ReuseHandlers(ctx, &callbacks.RunInfo{
		Name:      ModelNodeName,
		Type:      a.modelType,
		Component: components.ComponentOfChatModel,
		Graph:     a.graph.Name(),
	})
	ctx = callbacks.OnStart(ctx, msgs)

	reply, err := a.chatModel.Generate(ctx, msgs, optionsFromState(state).modelOptions...)
	if err != nil {
		_ = callbacks.OnError(ctx, err)
		return nil, err
	}
	if reply == nil {
		err = errors.New("chat model returned a nil message")
		_ = callbacks.OnError(ctx, err)
		return nil, err
	}
	_ = callbacks.OnEnd(ctx, reply)

	if err = conv.AddMessage(ctx, reply); err != nil {
		return nil, err
	}
	return state.Set(stateKeyReply, reply), nil
}

// decide 回复中有工具调用时执行工具，否则以回复结束。
func (a *Agent) decide(_ context.Context, state *compose.State) (compose.Decision, error) {
	reply, ok := compose.GetValue[*schema.Message](state, stateKeyReply)
	if !ok || reply == nil {
		return compose.Decision{}, errors.New("no reply to route")
	}
	if len(reply.ToolCalls) > 0 {
		return compose.Continue(routeTools), nil
	}
	return compose.Halt(reply), nil
}

// invokeTools 依次执行回复中的工具调用，结果作为工具消息写入对话。
func (a *Agent) invokeTools(ctx context.Context, state *compose.State) (*compose.State, error) {
	conv, err := conversationFromState(state)
	if err != nil {
		return nil, err
	}
	reply, _ := compose.GetValue[*schema.Message](state, stateKeyReply)
	toolOpts := optionsFromState(state).toolOptions

	state.Delete(stateKeyDirect)
	for _, call := range reply.ToolCalls {
		t, ok := a.tools[call.Function.Name]
		if !ok {
			return nil, fmt.Errorf("tool '%s' not found", call.Function.Name)
		}

		toolCtx := callbacks.ReuseHandlers(ctx, &callbacks.RunInfo{
			Name:      call.Function.Name,
			Type:      generic.TypeName(t),
			Component: components.ComponentOfTool,
			Graph:     a.graph.Name(),
		})
		toolCtx = callbacks.OnStart(toolCtx, call.Function.Arguments)

		output, err := t.InvokableRun(toolCtx, call.Function.Arguments, toolOpts...)
		if err != nil {
			err = fmt.Errorf("invoke tool '%s' failed: %w", call.Function.Name, err)
			_ = callbacks.OnError(toolCtx, err)
			return nil, err
		}
		_ = callbacks.OnEnd(toolCtx, output)

		msg := schema.ToolMessage(output, call.ID, schema.WithToolName(call.Function.Name))
		if err = conv.AddMessage(ctx, msg); err != nil {
			return nil, err
		}
		if _, direct := a.config.ToolReturnDirectly[call.Function.Name]; direct {
			if _, set := state.Get(stateKeyDirect); !set {
				state.Set(stateKeyDirect, msg)
			}
		}
	}
	return state, nil
}

// afterTools 命中直接返回的工具时以工具结果结束，否则回到模型。
func (a *Agent) afterTools(_ context.Context, state *compose.State) (compose.Decision, error) {
	if msg, ok := compose.GetValue[*schema.Message](state, stateKeyDirect); ok && msg != nil {
		return compose.Halt(msg), nil
	}
	return compose.Continue(routeContinue), nil
}
