// Package model 定义聊天模型组件的接口与调用选项。
//
// 具体的供应商实现（HTTP 请求构造、响应解析等）不在本仓库内，
// 工作流只依赖 ChatModel 的 Generate 约定。
package model
