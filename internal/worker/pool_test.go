package worker

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	pool := NewPool(zap.NewNop())

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		pool.Submit("task", func(ctx context.Context) { ran.Add(1) })
	}
	pool.Wait()

	assert.Equal(t, int32(5), ran.Load())
}

func TestPoolRecoversPanics(t *testing.T) {
	pool := NewPool(zap.NewNop())

	var after atomic.Bool
	pool.Submit("boom", func(ctx context.Context) { panic("boom") })
	pool.Submit("ok", func(ctx context.Context) { after.Store(true) })
	pool.Wait()

	assert.True(t, after.Load())
}

func TestPoolTasksGetBackgroundContext(t *testing.T) {
	pool := NewPool(zap.NewNop())

	var hadDeadline atomic.Bool
	pool.Submit("ctx", func(ctx context.Context) {
		_, ok := ctx.Deadline()
		hadDeadline.Store(ok)
	})
	pool.Wait()

	assert.False(t, hadDeadline.Load())
}
