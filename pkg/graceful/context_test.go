package graceful

import (
	"context"
	"io"
	"log/slog"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestContext_CanceledBySignal(t *testing.T) {
	ctx, cancel := Context(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer cancel()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not canceled after SIGTERM")
	}
}

func TestContext_CancelFunc(t *testing.T) {
	ctx, cancel := Context(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled")
	}
}
