package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// WatchSignals returns a context that is canceled when SIGINT, SIGTERM or
// SIGHUP arrives. onSignal runs before the cancel so a read blocked on the
// terminal can be released. The returned stop func is safe to call twice.
func WatchSignals(parent context.Context, onSignal func()) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})

	go func() {
		select {
		case <-sigCh:
			if onSignal != nil {
				onSignal()
			}
			cancel()
		case <-done:
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(done)
			cancel()
		})
	}
	return ctx, stop
}
