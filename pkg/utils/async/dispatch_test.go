package async_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/recmu/pkg/utils/async"
)

func TestDispatch(t *testing.T) {
	t.Run("handler outlives the caller context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)

		async.Dispatch(ctx, "test", func(ctx context.Context) error {
			done <- ctx.Err()
			return nil
		})
		cancel()

		select {
		case err := <-done:
			gt.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("handler did not run")
		}
	})

	t.Run("panic is recovered", func(t *testing.T) {
		done := make(chan struct{})
		async.Dispatch(context.Background(), "panic", func(context.Context) error {
			defer close(done)
			panic("boom")
		})

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("handler did not run")
		}
	})
}
