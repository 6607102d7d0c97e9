// Package sigctx ties a context to process termination signals.
package sigctx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// ErrSignal is wrapped by the cause of a context canceled by a signal.
var ErrSignal = errors.New("termination signal received")

var signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}

// NotifyContext returns a context canceled on SIGINT, SIGTERM or SIGQUIT.
// The signal is logged and recorded as the context cause. Delivery stops
// once the context is done, so a second signal terminates the process.
func NotifyContext() (context.Context, context.CancelFunc) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)

	ctx, stop := watch(context.Background(), ch)
	context.AfterFunc(ctx, func() { signal.Stop(ch) })
	return ctx, stop
}

func watch(parent context.Context, ch <-chan os.Signal) (context.Context, context.CancelFunc) {
	const op = "sigctx.watch"

	ctx, cancel := context.WithCancelCause(parent)
	go func() {
		select {
		case sig := <-ch:
			slog.Info("signal received, shutting down", "op", op, "signal", sig.String())
			cancel(fmt.Errorf("%w: %s", ErrSignal, sig))
		case <-ctx.Done():
		}
	}()
	return ctx, func() { cancel(nil) }
}
