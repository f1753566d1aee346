package model

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/favbox/avalon/internal/generic"
	"github.com/favbox/avalon/schema"
)

func TestOptions(t *testing.T) {
	convey.Convey("通用选项覆盖默认值", t, func() {
		var (
			modelName           = "model"
			temperature float32 = 0.9
			maxToken            = 5000
			topP        float32 = 0.8
			tools               = []*schema.ToolInfo{{Name: "lookup"}, {Name: "page"}}
			toolChoice          = schema.ToolChoiceForced
		)

		opts := GetCommonOptions(
			&Options{
				Model:       generic.PtrOf("default_model"),
				Temperature: generic.PtrOf(float32(1.0)),
				MaxTokens:   generic.PtrOf(1000),
				TopP:        generic.PtrOf(float32(0.5)),
			},
			WithModel(modelName),
			WithTemperature(temperature),
			WithMaxTokens(maxToken),
			WithTopP(topP),
			WithStop([]string{"\n"}),
			WithTools(tools),
			WithToolChoice(toolChoice),
		)

		convey.So(opts, convey.ShouldResemble, &Options{
			Model:       &modelName,
			Temperature: &temperature,
			MaxTokens:   &maxToken,
			TopP:        &topP,
			Stop:        []string{"\n"},
			Tools:       tools,
			ToolChoice:  &toolChoice,
		})
	})

	convey.Convey("nil 工具列表被规范为空列表", t, func() {
		opts := GetCommonOptions(nil, WithTools(nil))
		convey.So(opts.Tools, convey.ShouldNotBeNil)
		convey.So(len(opts.Tools), convey.ShouldEqual, 0)
	})
}

func TestImplSpecificOpts(t *testing.T) {
	convey.Convey("实现特定选项", t, func() {
		type implOptions struct {
			endpoint string
		}
		opt := WrapImplSpecificOptFn(func(o *implOptions) {
			o.endpoint = "http://localhost"
		})

		got := GetImplSpecificOptions(&implOptions{endpoint: "default"}, opt, WithModel("ignored"))
		convey.So(got.endpoint, convey.ShouldEqual, "http://localhost")
		convey.So(GetImplSpecificOptions[implOptions](nil).endpoint, convey.ShouldEqual, "")
	})
}
