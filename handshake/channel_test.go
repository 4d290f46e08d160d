package handshake

import (
	"errors"
	"net"
	"testing"
	"time"
)

func TestDeadlineChannelReadTimeout(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	ch := &DeadlineChannel{Conn: a, Timeout: 20 * time.Millisecond}
	buf := make([]byte, 1)
	_, err := ch.Read(buf)
	var nerr net.Error
	if !errors.As(err, &nerr) || !nerr.Timeout() {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

// A channel-level timeout surfaces as a ChannelError from Shake, not as a
// protocol error.
func TestShakeTreatsTimeoutAsChannelError(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()

	// Drain the peer side so the engine's hello write completes, then go
	// silent to force a read timeout.
	go func() {
		buf := make([]byte, 1+8+NonceLen)
		conn := b
		total := 0
		for total < len(buf) {
			n, err := conn.Read(buf[total:])
			if err != nil {
				return
			}
			total += n
		}
	}()

	s := NewSession(testIdentity(1, 7, 3), &DeadlineChannel{Conn: a, Timeout: 50 * time.Millisecond})
	err := s.Shake()
	a.Close()
	var cerr *ChannelError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ChannelError, got %v", err)
	}
	if IsProtocolError(err) {
		t.Fatal("timeout misclassified as protocol error")
	}
}
