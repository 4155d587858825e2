package boundary

import (
	"sync"
)

// ExecContext is the background execution context executor calls are
// bridged through. A single worker goroutine, started on first use, runs the
// submitted work while the calling goroutine blocks for the result.
type ExecContext struct {
	start sync.Once
	jobs  chan func()
}

// NewExecContext creates an isolated execution context. The worker starts
// lazily on the first Do call.
func NewExecContext() *ExecContext {
	return &ExecContext{jobs: make(chan func())}
}

// Do runs fn on the context's worker and blocks until it finishes. A panic
// inside fn is re-raised on the calling goroutine so the boundary's fault
// containment sees it; the worker itself stays alive.
func (c *ExecContext) Do(fn func()) {
	c.start.Do(func() {
		go func() {
			for job := range c.jobs {
				job()
			}
		}()
	})

	done := make(chan any, 1)
	c.jobs <- func() {
		defer func() { done <- recover() }()
		fn()
	}
	if p := <-done; p != nil {
		panic(p)
	}
}

var (
	sharedOnce sync.Once
	sharedCtx  *ExecContext
)

// SharedContext returns the process-wide execution context, creating it at
// most once. All boundaries that are not given an isolated context via
// WithExecContext share it for the process lifetime.
func SharedContext() *ExecContext {
	sharedOnce.Do(func() {
		sharedCtx = NewExecContext()
	})
	return sharedCtx
}
