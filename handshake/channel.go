package handshake

import (
	"io"
	"net"
	"time"
)

// Channel is the byte stream the handshake runs over. Reads and writes block
// until the requested byte count transfers or the channel fails; the engine
// never issues partial transfers. Deadlines and cancellation are the
// channel's responsibility, not the engine's.
type Channel interface {
	io.Reader
	io.Writer
}

// DeadlineChannel wraps a net.Conn and applies a fresh deadline to every read
// and write. A zero Timeout disables deadlines.
type DeadlineChannel struct {
	Conn    net.Conn
	Timeout time.Duration
}

func (c *DeadlineChannel) Read(p []byte) (int, error) {
	if c.Timeout > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.Timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(p)
}

func (c *DeadlineChannel) Write(p []byte) (int, error) {
	if c.Timeout > 0 {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(c.Timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Write(p)
}

// readFull reads exactly len(p) bytes, surfacing any failure as a
// ChannelError tagged with the handshake step.
func readFull(ch Channel, op string, p []byte) error {
	if _, err := io.ReadFull(ch, p); err != nil {
		return &ChannelError{Op: op, Err: err}
	}
	return nil
}

// writeFull writes all of p. Channels are expected to either transfer the
// whole buffer or fail; a short write without an error is still a failure.
func writeFull(ch Channel, op string, p []byte) error {
	n, err := ch.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &ChannelError{Op: op, Err: err}
	}
	return nil
}
