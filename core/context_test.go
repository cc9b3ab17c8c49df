package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))

	_, ok := getRunID(ctx)
	assert.False(t, ok)
}

func TestContextWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), suppressHeaderKey, "yes")
	assert.False(t, shouldSuppressHeader(ctx))

	ctx = context.WithValue(ctx, runIDKey, 42)
	_, ok := getRunID(ctx)
	assert.False(t, ok, "an int is not an int64 run ID")
}

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	ctx = withRunID(ctx, 12345)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			runID, ok := getRunID(ctx)
			assert.True(t, shouldSuppressHeader(ctx), "goroutine %d", i)
			assert.True(t, ok, "goroutine %d", i)
			assert.Equal(t, int64(12345), runID, "goroutine %d", i)
		})
	}
	wg.Wait()
}
