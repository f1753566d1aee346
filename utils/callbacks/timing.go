package callbacks

import (
	"context"
	"time"
)

type startTimeKey struct{}

func withStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, startTimeKey{}, time.Now())
}

// elapsed 返回自 OnStart 以来的耗时；ctx 中没有开始时间时返回 0。
func elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}
