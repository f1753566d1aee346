// Package conversation 提供只追加的对话记录。
//
// 消息通过 AddMessage 追加，追加前依次执行 pre 钩子（可以改写或拒绝消息），
// 追加后依次执行 post 钩子（只能观察）。已追加的消息不会被删除或修改。
//
// 使用示例：
//
//	conv := conversation.New(conversation.WithPreAddHooks(redact))
//	if err := conv.AddMessage(ctx, schema.UserMessage("磁盘告警")); err != nil {
//		return err
//	}
//	reply, err := chatModel.Generate(ctx, conv.Messages())
package conversation
