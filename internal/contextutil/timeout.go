package contextutil

import (
	"context"
	"net"
	"sync"
	"time"
)

// WithTimeout returns the parent context if d<=0; otherwise wraps it with a timeout.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return parent, func() {}
	}
	return context.WithTimeout(parent, d)
}

// AbortConnOnDone forces blocked reads and writes on conn to fail once ctx
// ends, by moving the conn deadline into the past. The returned stop func
// releases the watcher; call it once the guarded I/O is finished. It does not
// reset the deadline.
func AbortConnOnDone(ctx context.Context, conn net.Conn) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.SetDeadline(time.Now())
		case <-done:
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
