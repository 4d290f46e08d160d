// Package session is the high-level entrypoint: it runs the handshake over a
// net.Conn with sensible defaults and reports the outcome to an observer.
// Advanced integrations can build their own stack from the handshake package
// directly.
package session

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/streamforge/rtmpwire/clock"
	"github.com/streamforge/rtmpwire/handshake"
	"github.com/streamforge/rtmpwire/internal/contextutil"
	"github.com/streamforge/rtmpwire/observability"
)

// Options configures Establish. The zero value is usable: a system clock,
// no observer, no deadlines.
type Options struct {
	Clock    clock.Clock                   // Epoch source (nil uses a fresh system clock).
	Observer observability.SessionObserver // Outcome sink (nil discards).

	HandshakeTimeout time.Duration // Total handshake timeout (0 disables).
	IOTimeout        time.Duration // Per-read/write deadline during the handshake (0 disables).
}

// Session is an established connection: the verified local and peer
// identities plus the underlying conn, which from here on carries chunk
// stream data.
type Session struct {
	conn net.Conn
	hs   *handshake.Session

	closeOnce sync.Once
	closeErr  error
}

// Establish runs the full handshake on conn. Cancelling ctx (or exceeding
// HandshakeTimeout) aborts in-flight handshake I/O. On failure the conn is
// left open; whether to retry or tear down is the caller's call.
func Establish(ctx context.Context, conn net.Conn, opts Options) (*Session, error) {
	if conn == nil {
		return nil, wrapErr(StageValidate, CodeMissingConn, ErrMissingConn)
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}

	local, err := handshake.NewIdentity(clk)
	if err != nil {
		return nil, wrapErr(StageIdentity, CodeRandomFailed, err)
	}

	var ch handshake.Channel = conn
	if opts.IOTimeout > 0 {
		ch = &handshake.DeadlineChannel{Conn: conn, Timeout: opts.IOTimeout}
	}

	shakeCtx, cancel := contextutil.WithTimeout(ctx, opts.HandshakeTimeout)
	defer cancel()
	stop := contextutil.AbortConnOnDone(shakeCtx, conn)

	hs := handshake.NewSession(local, ch)
	start := time.Now()
	shakeErr := hs.Shake()
	stop()
	if shakeErr == nil {
		// Drop any deadline left behind by the watcher or DeadlineChannel
		// before handing the conn back.
		if err := conn.SetDeadline(time.Time{}); err != nil {
			shakeErr = &handshake.ChannelError{Op: "clear_deadline", Err: err}
		}
	}
	if opts.Observer != nil {
		opts.Observer.Handshake(observability.ResultForError(shakeErr), time.Since(start))
	}
	if shakeErr != nil {
		return nil, wrapErr(StageHandshake, CodeHandshakeFailed, shakeErr)
	}
	return &Session{conn: conn, hs: hs}, nil
}

// Conn returns the underlying connection, past the handshake bytes.
func (s *Session) Conn() net.Conn {
	if s == nil {
		return nil
	}
	return s.conn
}

func (s *Session) Local() handshake.Identity {
	if s == nil {
		return handshake.Identity{}
	}
	return s.hs.Local
}

func (s *Session) Peer() handshake.Identity {
	if s == nil {
		return handshake.Identity{}
	}
	return s.hs.Peer
}

// Close closes the underlying connection. Safe to call more than once.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		if err := s.conn.Close(); err != nil {
			s.closeErr = wrapErr(StageClose, CodeCloseFailed, err)
		}
	})
	return s.closeErr
}
