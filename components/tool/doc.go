// Package tool 定义工具组件的接口与调用选项。
package tool
