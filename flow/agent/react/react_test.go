package react

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/favbox/avalon/callbacks"
	"github.com/favbox/avalon/components"
	"github.com/favbox/avalon/components/model"
	"github.com/favbox/avalon/components/tool"
	"github.com/favbox/avalon/components/tool/utils"
	"github.com/favbox/avalon/compose"
	"github.com/favbox/avalon/conversation"
	mockModel "github.com/favbox/avalon/internal/mock/components/model"
	mockTool "github.com/favbox/avalon/internal/mock/components/tool"
	"github.com/favbox/avalon/schema"
)

type diskArgs struct {
	Host string `json:"host" jsonschema:"description=host name"`
}

func newDiskTool(t *testing.T, calls *[]string) tool.InvokableTool {
	dt, err := utils.InferTool("disk_usage", "查询主机磁盘使用率",
		func(_ context.Context, in *diskArgs) (string, error) {
			*calls = append(*calls, in.Host)
			return fmt.Sprintf("%s: 93%%", in.Host), nil
		})
	require.NoError(t, err)
	return dt
}

func toolCall(id, name, args string) *schema.Message {
	return schema.AssistantMessage("", []schema.ToolCall{{
		ID:       id,
		Type:     "function",
		Function: schema.FunctionCall{Name: name, Arguments: args},
	}})
}

func TestReact(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	var hosts []string
	diskTool := newDiskTool(t, &hosts)

	cm := mockModel.NewMockToolCallingChatModel(ctrl)
	cm.EXPECT().WithTools(gomock.Any()).DoAndReturn(func(infos []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
		assert.Len(t, infos, 1)
		assert.Equal(t, "disk_usage", infos[0].Name)
		return cm, nil
	}).Times(1)

	times := 0
	cm.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
			times++
			if times <= 2 {
				return toolCall(fmt.Sprintf("call-%d", times), "disk_usage", fmt.Sprintf(`{"host": "db-%d"}`, times)), nil
			}
			return schema.AssistantMessage("db-1 与 db-2 磁盘使用率过高", nil), nil
		}).Times(3)

	a, err := NewAgent(ctx, &AgentConfig{
		ToolCallingModel: cm,
		Tools:            []tool.BaseTool{diskTool},
		SystemPrompt:     "你是{team}的值班助手",
		PromptValues:     map[string]any{"team": "SRE"},
		MessageModifier: func(_ context.Context, input []*schema.Message) []*schema.Message {
			assert.Len(t, input, times*2+2)
			return input
		},
	})
	require.NoError(t, err)

	conv := conversation.New()
	out, err := a.Generate(ctx, []*schema.Message{schema.UserMessage("检查数据库主机")}, WithConversation(conv))
	require.NoError(t, err)

	assert.Equal(t, "db-1 与 db-2 磁盘使用率过高", out.Content)
	assert.Equal(t, []string{"db-1", "db-2"}, hosts)

	msgs := conv.Messages()
	require.Len(t, msgs, 7)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, "你是SRE的值班助手", msgs[0].Content)
	assert.Equal(t, schema.Tool, msgs[3].Role)
	assert.Equal(t, "call-1", msgs[3].ToolCallID)
	assert.Equal(t, "disk_usage", msgs[3].ToolName)
	assert.Equal(t, "db-1: 93%", msgs[3].Content)
}

func TestReactReturnDirectly(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	var hosts []string
	cm := mockModel.NewMockToolCallingChatModel(ctrl)
	cm.EXPECT().WithTools(gomock.Any()).Return(cm, nil)
	cm.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(toolCall("call-1", "disk_usage", `{"host": "db-9"}`), nil).Times(1)

	a, err := NewAgent(ctx, &AgentConfig{
		ToolCallingModel:   cm,
		Tools:              []tool.BaseTool{newDiskTool(t, &hosts)},
		ToolReturnDirectly: map[string]struct{}{"disk_usage": {}},
	})
	require.NoError(t, err)

	out, err := a.Generate(ctx, []*schema.Message{schema.UserMessage("db-9 呢")})
	require.NoError(t, err)
	assert.Equal(t, schema.Tool, out.Role)
	assert.Equal(t, "db-9: 93%", out.Content)
	assert.Equal(t, "call-1", out.ToolCallID)
}

func TestReactFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("exceeds max steps", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		var hosts []string
		cm := mockModel.NewMockToolCallingChatModel(ctrl)
		cm.EXPECT().WithTools(gomock.Any()).Return(cm, nil)
		cm.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(toolCall("call", "disk_usage", `{"host": "loop"}`), nil).AnyTimes()

		a, err := NewAgent(ctx, &AgentConfig{
			ToolCallingModel: cm,
			Tools:            []tool.BaseTool{newDiskTool(t, &hosts)},
			MaxStep:          9,
		})
		require.NoError(t, err)

		_, err = a.Generate(ctx, []*schema.Message{schema.UserMessage("loop")})
		assert.ErrorIs(t, err, compose.ErrExceedMaxSteps)
		// init 之后每轮访问 model、decide、tools、after_tools 四个节点
		assert.Len(t, hosts, 2)
	})

	t.Run("chat model error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		boom := errors.New("rate limited")
		cm := mockModel.NewMockToolCallingChatModel(ctrl)
		cm.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

		a, err := NewAgent(ctx, &AgentConfig{ToolCallingModel: cm})
		require.NoError(t, err)

		_, err = a.Generate(ctx, []*schema.Message{schema.UserMessage("hi")})
		assert.ErrorIs(t, err, boom)

		var ee *compose.ExecutionError
		require.True(t, errors.As(err, &ee))
		assert.Equal(t, "model", ee.Node)
		assert.Equal(t, compose.PhaseExecute, ee.Phase)
	})

	t.Run("unknown tool", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cm := mockModel.NewMockToolCallingChatModel(ctrl)
		cm.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(toolCall("call", "reboot", `{}`), nil)

		a, err := NewAgent(ctx, &AgentConfig{ToolCallingModel: cm})
		require.NoError(t, err)

		_, err = a.Generate(ctx, []*schema.Message{schema.UserMessage("reboot it")})
		assert.ErrorContains(t, err, "tool 'reboot' not found")
	})

	t.Run("tool is not invokable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cm := mockModel.NewMockToolCallingChatModel(ctrl)
		bt := mockTool.NewMockBaseTool(ctrl)
		bt.EXPECT().Info(gomock.Any()).Return(&schema.ToolInfo{Name: "describe"}, nil)

		_, err := NewAgent(ctx, &AgentConfig{ToolCallingModel: cm, Tools: []tool.BaseTool{bt}})
		assert.ErrorContains(t, err, "tool 'describe' is not invokable")
	})

	t.Run("tool error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cm := mockModel.NewMockToolCallingChatModel(ctrl)
		cm.EXPECT().WithTools(gomock.Any()).Return(cm, nil)
		cm.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(toolCall("call", "restart", `{"service": "nginx"}`), nil)

		it := mockTool.NewMockInvokableTool(ctrl)
		it.EXPECT().Info(gomock.Any()).Return(&schema.ToolInfo{Name: "restart"}, nil)
		it.EXPECT().InvokableRun(gomock.Any(), `{"service": "nginx"}`).Return("", errors.New("permission denied"))

		a, err := NewAgent(ctx, &AgentConfig{ToolCallingModel: cm, Tools: []tool.BaseTool{it}})
		require.NoError(t, err)

		_, err = a.Generate(ctx, []*schema.Message{schema.UserMessage("restart nginx")})
		assert.ErrorContains(t, err, "invoke tool 'restart' failed: permission denied")
	})

	t.Run("missing model", func(t *testing.T) {
		_, err := NewAgent(ctx, &AgentConfig{})
		assert.Error(t, err)
	})
}

func TestReactCallbacks(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	var hosts []string
	cm := mockModel.NewMockToolCallingChatModel(ctrl)
	cm.EXPECT().WithTools(gomock.Any()).Return(cm, nil)
	gomock.InOrder(
		cm.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(toolCall("call-1", "disk_usage", `{"host": "db-1"}`), nil),
		cm.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(schema.AssistantMessage("done", nil), nil),
	)

	a, err := NewAgent(ctx, &AgentConfig{
		ToolCallingModel: cm,
		Tools:            []tool.BaseTool{newDiskTool(t, &hosts)},
	})
	require.NoError(t, err)

	ends := map[components.Component]int{}
	handler := callbacks.NewHandlerBuilder().
		OnEndFn(func(ctx context.Context, info *callbacks.RunInfo, _ callbacks.CallbackOutput) context.Context {
			ends[info.Component]++
			return ctx
		}).
		Build()

	out, err := a.Generate(ctx, []*schema.Message{schema.UserMessage("db-1")},
		WithComposeOptions(compose.WithCallbacks(handler)),
		WithChatModelOptions(model.WithTemperature(0)))
	require.NoError(t, err)
	assert.Equal(t, "done", out.Content)

	assert.Equal(t, 1, ends[components.ComponentOfGraph])
	assert.Equal(t, 2, ends[components.ComponentOfChatModel])
	assert.Equal(t, 1, ends[components.ComponentOfTool])
	// 用户消息、两条助手消息、一条工具消息
	assert.Equal(t, 4, ends[components.ComponentOfConversation])
	// init、model×2、tools
	assert.Equal(t, 4, ends[components.ComponentOfNode])
	// decide×2、after_tools
	assert.Equal(t, 3, ends[components.ComponentOfRouter])
}

func TestReactGraph(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, err := NewAgent(context.Background(), &AgentConfig{
		ToolCallingModel: mockModel.NewMockToolCallingChatModel(ctrl),
		GraphName:        "oncall",
	})
	require.NoError(t, err)

	g := a.ExportGraph()
	assert.Equal(t, "oncall", g.Name())

	diagram := compose.Mermaid(g)
	assert.Contains(t, diagram, "    init --> model\n")
	assert.Contains(t, diagram, "    decide -->|\"tools\"| tools\n")
	assert.Contains(t, diagram, "    decide --o|\"done\"| halt_decide(((HALT)))\n")
	assert.Contains(t, diagram, "    after_tools -->|\"continue\"| model\n")
}
