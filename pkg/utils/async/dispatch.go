package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/recmu/pkg/utils/logging"
)

// Dispatch runs handler in a new goroutine. The goroutine gets a background
// context carrying the caller's logger, so it outlives the caller's ctx.
// Errors and panics are logged with the given task name.
func Dispatch(ctx context.Context, task string, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async task", "task", task, "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			logging.From(bgCtx).Error("async task failed", "task", task, "error", goerr.Unwrap(err))
		}
	}()
}
