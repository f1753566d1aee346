package safe

import "fmt"

// panicErr 承载 recover 得到的 panic 值与当时的堆栈。
type panicErr struct {
	info  any
	stack []byte
}

func (p *panicErr) Error() string {
	return fmt.Sprintf("panic error: %v, \nstack: %s", p.info, string(p.stack))
}

// NewPanicErr 将 panic 值和堆栈包装为 error。
// 节点、路由和钩子中的 panic 都经由它转为普通的执行错误。
func NewPanicErr(info any, stack []byte) error {
	return &panicErr{
		info:  info,
		stack: stack,
	}
}

// IsPanicErr 判断 err 是否由 NewPanicErr 创建。
func IsPanicErr(err error) bool {
	_, ok := err.(*panicErr)
	return ok
}
