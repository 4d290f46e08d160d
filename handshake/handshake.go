// Package handshake implements the fixed six-step exchange that bootstraps a
// session over a reliable byte stream, before any chunked application data
// flows.
//
// The exchange is structurally symmetric: both peers run the identical
// procedure regardless of which side initiated the connection. Each side
// sends a version byte and a hello (epoch + 1528-byte random nonce), then
// echoes the peer's hello back and verifies the peer's echo of its own. The
// correct echo of the locally generated nonce is the sole authentication
// signal of this plain handshake variant; there is no digest or encryption.
package handshake

import (
	"crypto/rand"
	"crypto/subtle"

	"github.com/streamforge/rtmpwire/clock"
	"github.com/streamforge/rtmpwire/internal/bin"
)

const (
	// Version is the only protocol version this implementation speaks.
	// There is no backward-compatibility negotiation: any other value from
	// the peer is a hard failure.
	Version = 3

	// NonceLen is the exact size of the random payload in each hello.
	NonceLen = 1528

	// helloLen is epoch(4) + reserved zero(4) + nonce(1528).
	helloLen = 4 + 4 + NonceLen
)

// Nonce is the fixed-size opaque random payload exchanged in a hello. It is
// generated once per attempt and must be unpredictable to the peer.
type Nonce [NonceLen]byte

// Identity is one side's contribution to the handshake: a 32-bit epoch
// (a session tag, typically a millisecond timestamp, though the protocol
// does not require a real clock value) and the random nonce.
type Identity struct {
	Epoch uint32
	Nonce Nonce
}

// NewIdentity builds a fresh local identity: the epoch from c and the nonce
// from crypto/rand. Every attempt needs a new identity; nonce reuse across
// attempts is a security defect, not just a correctness one.
func NewIdentity(c clock.Clock) (Identity, error) {
	id := Identity{Epoch: c.Now()}
	if _, err := rand.Read(id.Nonce[:]); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// State is the terminal disposition of a Session.
type State uint8

const (
	StatePending State = iota
	StateEstablished
	StateFailed
)

// Session holds one handshake attempt: the caller-populated local identity,
// the peer identity filled in from the wire, and the borrowed byte channel.
// A Session drives exactly one Shake; it is not reused.
//
// The channel is borrowed for the duration of the exchange and handed back
// afterward; the Session does not manage the transport's lifecycle.
type Session struct {
	Local Identity
	Peer  Identity

	ch    Channel
	state State
}

func NewSession(local Identity, ch Channel) *Session {
	return &Session{Local: local, ch: ch}
}

func (s *Session) State() State { return s.state }

// Channel returns the byte channel, which after a successful Shake carries a
// live session ready for the chunk-stream layer.
func (s *Session) Channel() Channel { return s.ch }

// Shake runs the six-step exchange in strict order:
//
//	send_0  version byte
//	send_1  local epoch + zero + local nonce
//	recv_0  peer version byte (must be 3)
//	recv_1  peer epoch + zero (must be 0) + peer nonce
//	send_2  peer epoch echo + local epoch + peer nonce echo
//	recv_2  local epoch echo (verified) + peer timestamp (ignored) +
//	        local nonce echo (verified)
//
// The first failing check aborts the attempt; there is no retry within a
// single Shake. On failure the Peer fields may be partially populated and
// must not be trusted.
func (s *Session) Shake() error {
	if s.state != StatePending {
		return ErrSessionReused
	}
	err := s.shake()
	if err != nil {
		s.state = StateFailed
		return err
	}
	s.state = StateEstablished
	return nil
}

func (s *Session) shake() error {
	// send_0 + send_1: everything this side contributes goes out before
	// anything is read, so both peers can run the same procedure.
	var hello [1 + helloLen]byte
	hello[0] = Version
	bin.PutU32BE(hello[1:5], s.Local.Epoch)
	copy(hello[9:], s.Local.Nonce[:])
	if err := writeFull(s.ch, "send_hello", hello[:]); err != nil {
		return err
	}

	// recv_0: hard version gate.
	var version [1]byte
	if err := readFull(s.ch, "recv_version", version[:]); err != nil {
		return err
	}
	if version[0] != Version {
		return ErrInvalidPeerVersion
	}

	// recv_1: peer epoch, reserved field, peer nonce.
	var peerHello [helloLen]byte
	if err := readFull(s.ch, "recv_hello", peerHello[:]); err != nil {
		return err
	}
	s.Peer.Epoch = bin.U32BE(peerHello[0:4])
	if bin.U32BE(peerHello[4:8]) != 0 {
		return ErrInvalidZeroBytes
	}
	copy(s.Peer.Nonce[:], peerHello[8:])

	// send_2: echo the peer's hello back, with our epoch as the second
	// timestamp field.
	var echo [helloLen]byte
	bin.PutU32BE(echo[0:4], s.Peer.Epoch)
	bin.PutU32BE(echo[4:8], s.Local.Epoch)
	copy(echo[8:], s.Peer.Nonce[:])
	if err := writeFull(s.ch, "send_echo", echo[:]); err != nil {
		return err
	}

	// recv_2: the peer's echo of our hello. The epoch must match exactly
	// and the nonce byte-for-byte; the middle timestamp is not validated.
	var peerEcho [helloLen]byte
	if err := readFull(s.ch, "recv_echo", peerEcho[:]); err != nil {
		return err
	}
	if bin.U32BE(peerEcho[0:4]) != s.Local.Epoch {
		return ErrIncorrectEpochEcho
	}
	if subtle.ConstantTimeCompare(peerEcho[8:], s.Local.Nonce[:]) != 1 {
		return ErrIncorrectRandomBytesEcho
	}
	return nil
}
