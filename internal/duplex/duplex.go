// Package duplex provides a buffered in-memory byte-stream pair. The
// handshake sends a full flight before reading anything, so both ends of a
// test pair need enough buffering to absorb the peer's first flight;
// net.Pipe and io.Pipe are fully synchronous and would deadlock.
package duplex

import (
	"io"
	"sync"
)

type End struct {
	in  <-chan []byte
	out chan<- []byte

	leftover []byte

	mu     sync.Mutex
	closed bool
	once   sync.Once
}

// Pipe returns two connected ends. Each direction buffers up to `frames`
// pending writes before blocking.
func Pipe(frames int) (*End, *End) {
	ab := make(chan []byte, frames)
	ba := make(chan []byte, frames)
	return &End{in: ba, out: ab}, &End{in: ab, out: ba}
}

func (e *End) Read(p []byte) (int, error) {
	if len(e.leftover) == 0 {
		b, ok := <-e.in
		if !ok {
			return 0, io.EOF
		}
		e.leftover = b
	}
	n := copy(p, e.leftover)
	e.leftover = e.leftover[n:]
	return n, nil
}

func (e *End) Write(p []byte) (int, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return 0, io.ErrClosedPipe
	}
	cpy := make([]byte, len(p))
	copy(cpy, p)
	e.out <- cpy
	return len(p), nil
}

// Close stops this end's outbound direction; the peer's pending reads drain
// and then see EOF.
func (e *End) Close() error {
	e.once.Do(func() {
		e.mu.Lock()
		e.closed = true
		e.mu.Unlock()
		close(e.out)
	})
	return nil
}
