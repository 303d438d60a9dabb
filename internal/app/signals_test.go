//go:build unix

package app

import (
	"context"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchSignalsCancelsOnSignal(t *testing.T) {
	var called atomic.Bool
	ctx, stop := WatchSignals(context.Background(), func() { called.Store(true) })
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGHUP))
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not canceled after signal")
	}
	assert.True(t, called.Load())
}

func TestWatchSignalsStopIsIdempotent(t *testing.T) {
	ctx, stop := WatchSignals(context.Background(), nil)
	stop()
	stop()
	assert.Error(t, ctx.Err())
}
