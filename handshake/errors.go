package handshake

import (
	"errors"
	"fmt"
)

// Protocol validation failures. Each is terminal for the attempt; the caller
// decides whether to retry with a fresh session over a fresh channel.
var (
	ErrInvalidPeerVersion       = errors.New("handshake: peer requested an unsupported protocol version")
	ErrInvalidZeroBytes         = errors.New("handshake: reserved field in peer hello is nonzero")
	ErrIncorrectEpochEcho       = errors.New("handshake: peer failed to echo our epoch")
	ErrIncorrectRandomBytesEcho = errors.New("handshake: peer failed to echo our random bytes")

	ErrSessionReused = errors.New("handshake: session already used; construct a fresh one per attempt")
)

// ChannelError wraps an I/O failure from the underlying byte channel. It is
// distinct from the protocol errors above: a channel error may warrant a
// reconnect and a fresh attempt, whereas a protocol error indicates a
// non-conforming or hostile peer.
type ChannelError struct {
	Op  string // Handshake step during which the channel failed.
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("handshake: channel failed during %s: %v", e.Op, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }

// IsProtocolError reports whether err is one of the four validation failures,
// as opposed to a channel-level I/O failure.
func IsProtocolError(err error) bool {
	return errors.Is(err, ErrInvalidPeerVersion) ||
		errors.Is(err, ErrInvalidZeroBytes) ||
		errors.Is(err, ErrIncorrectEpochEcho) ||
		errors.Is(err, ErrIncorrectRandomBytesEcho)
}
