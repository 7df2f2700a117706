package worker

import (
	"context"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

// Pool runs detached units of work. A submitted task is fire-and-forget:
// the caller retains no handle, failures are logged and never re-raised,
// and each task gets a background context decoupled from any request
// lifetime. There is no cancellation; work in flight at process exit is
// lost.
type Pool struct {
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewPool creates a pool.
func NewPool(logger *zap.Logger) *Pool {
	return &Pool{logger: logger}
}

// Submit schedules fn on its own goroutine. Panics are recovered and
// logged so a broken task cannot take the process down.
func (p *Pool) Submit(name string, fn func(ctx context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("detached task panicked",
					zap.String("task", name),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
			}
		}()
		fn(context.Background())
	}()
}

// Wait blocks until all submitted tasks have finished. Used by tests to
// join the background pipeline.
func (p *Pool) Wait() {
	p.wg.Wait()
}
