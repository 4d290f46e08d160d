// Package observability defines the hooks the session layer reports through.
// The handshake core itself never logs or reports; outcomes are surfaced
// here by the code that drives it.
package observability

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/streamforge/rtmpwire/handshake"
)

// Result classifies the outcome of one handshake attempt.
type Result string

const (
	ResultEstablished              Result = "established"
	ResultInvalidPeerVersion       Result = "invalid_peer_version"
	ResultInvalidZeroBytes         Result = "invalid_zero_bytes"
	ResultIncorrectEpochEcho       Result = "incorrect_epoch_echo"
	ResultIncorrectRandomBytesEcho Result = "incorrect_random_bytes_echo"
	ResultChannelError             Result = "channel_error"
)

// ResultForError maps a Shake error to its Result. A nil error is
// ResultEstablished; unrecognized errors count as channel failures.
func ResultForError(err error) Result {
	switch {
	case err == nil:
		return ResultEstablished
	case errors.Is(err, handshake.ErrInvalidPeerVersion):
		return ResultInvalidPeerVersion
	case errors.Is(err, handshake.ErrInvalidZeroBytes):
		return ResultInvalidZeroBytes
	case errors.Is(err, handshake.ErrIncorrectEpochEcho):
		return ResultIncorrectEpochEcho
	case errors.Is(err, handshake.ErrIncorrectRandomBytesEcho):
		return ResultIncorrectRandomBytesEcho
	default:
		return ResultChannelError
	}
}

// SessionObserver receives session lifecycle events.
type SessionObserver interface {
	// Handshake reports one completed attempt and how long it took.
	Handshake(result Result, d time.Duration)
}

// AtomicSessionObserver is a nil-safe, swappable observer holder. The zero
// value discards events until Set installs an implementation.
type AtomicSessionObserver struct {
	v atomic.Pointer[sessionObserverBox]
}

type sessionObserverBox struct {
	obs SessionObserver
}

func (a *AtomicSessionObserver) Set(obs SessionObserver) {
	a.v.Store(&sessionObserverBox{obs: obs})
}

func (a *AtomicSessionObserver) Handshake(result Result, d time.Duration) {
	if box := a.v.Load(); box != nil && box.obs != nil {
		box.obs.Handshake(result, d)
	}
}
