package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// waitForShutdown returns a channel closed on an interrupt or terminate
// signal, or when ctx is done.
func waitForShutdown(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case <-quit:
		case <-ctx.Done():
		}
		close(done)
	}()
	return done
}
