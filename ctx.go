package blescan

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithSigHandler returns a context that is cancelled on SIGINT or SIGTERM.
func WithSigHandler(ctx context.Context, cancel context.CancelFunc) context.Context {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx
}
