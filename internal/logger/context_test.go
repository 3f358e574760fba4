package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// TestContextHelpers verifies loggers travel through contexts with names and fields.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))

	core, logs := observer.New(zap.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "json")
	ctx = WithKV(ctx, "item", "Kitchen_Light")
	ctx = WithFields(ctx, "alias", "kitchen")

	InfoKV(ctx, "Stored", "state", "ON")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "json", entries[0].LoggerName)
	require.Equal(t, "Stored", entries[0].Message)

	fields := entries[0].ContextMap()
	require.Equal(t, "Kitchen_Light", fields["item"])
	require.Equal(t, "kitchen", fields["alias"])
	require.Equal(t, "ON", fields["state"])
}
