package sigctx

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context is not done")
	}
}

func TestWatch(t *testing.T) {
	t.Run("SignalCancelsWithCause", func(t *testing.T) {
		ch := make(chan os.Signal, 1)
		ctx, stop := watch(context.Background(), ch)
		defer stop()

		ch <- syscall.SIGTERM
		waitDone(t, ctx)

		assert.ErrorIs(t, ctx.Err(), context.Canceled)
		cause := context.Cause(ctx)
		require.ErrorIs(t, cause, ErrSignal)
		assert.Contains(t, cause.Error(), syscall.SIGTERM.String())
	})

	t.Run("StopWithoutSignal", func(t *testing.T) {
		ch := make(chan os.Signal, 1)
		ctx, stop := watch(context.Background(), ch)

		stop()
		waitDone(t, ctx)

		assert.ErrorIs(t, context.Cause(ctx), context.Canceled)
		assert.NotErrorIs(t, context.Cause(ctx), ErrSignal)
	})

	t.Run("ParentCanceled", func(t *testing.T) {
		parent, cancel := context.WithCancel(context.Background())
		ctx, stop := watch(parent, make(chan os.Signal))
		defer stop()

		cancel()
		waitDone(t, ctx)
		assert.NotErrorIs(t, context.Cause(ctx), ErrSignal)
	})
}

func TestNotifyContext_Stop(t *testing.T) {
	ctx, stop := NotifyContext()
	stop()
	waitDone(t, ctx)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
