// Package declarative 从 YAML 定义构建工作流图。
//
// 定义只描述结构，节点和路由的行为通过 Registry 按名称注册，加载时由工厂函数按节点配置创建：
//
//	name: alert-triage
//	metadata:
//	  owner: sre
//	nodes:
//	  - key: fetch
//	    behavior: fetch_alert
//	    options:
//	      endpoint: ${ALERT_API:-http://localhost:9093}
//	  - key: page
//	    behavior: page_oncall
//	routers:
//	  - key: classify
//	    behavior: by_severity
//	    routes:
//	      - label: urgent
//	        target: page
//	      - label: noise
//	        target: halt
//	edges:
//	  - from: fetch
//	    to: classify
//
// 加载结果是已通过校验的 *compose.Graph。
package declarative
