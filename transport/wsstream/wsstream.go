// Package wsstream adapts a websocket connection into the blocking byte
// stream the handshake and chunk layers run over, for deployments that
// carry the protocol across a websocket hop instead of a raw TCP socket.
package wsstream

import (
	"errors"
	"io"
	"time"

	"github.com/gorilla/websocket"
)

var ErrUnexpectedTextMessage = errors.New("wsstream: unexpected text message")

// Conn presents a websocket connection as an io.ReadWriteCloser. Each Write
// becomes one binary message; Read consumes binary messages as a contiguous
// byte stream, so reads and writes need not line up with message boundaries.
//
// Like the underlying websocket, Conn supports one concurrent reader and one
// concurrent writer.
type Conn struct {
	ws *websocket.Conn
	r  io.Reader // remainder of the current binary message
}

func New(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) Read(p []byte) (int, error) {
	for {
		if c.r == nil {
			mt, r, err := c.ws.NextReader()
			if err != nil {
				return 0, err
			}
			switch mt {
			case websocket.BinaryMessage:
				c.r = r
			case websocket.TextMessage:
				return 0, ErrUnexpectedTextMessage
			default:
				continue
			}
		}
		n, err := c.r.Read(p)
		if err == io.EOF {
			c.r = nil
			if n == 0 {
				continue
			}
			err = nil
		}
		return n, err
	}
}

func (c *Conn) Write(p []byte) (int, error) {
	if err := c.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *Conn) Close() error {
	return c.ws.Close()
}

// SetReadLimit caps the size of an inbound websocket message.
func (c *Conn) SetReadLimit(n int64) {
	c.ws.SetReadLimit(n)
}

// SetDeadline applies both read and write deadlines to the underlying
// websocket, so a stalled handshake fails instead of hanging.
func (c *Conn) SetDeadline(t time.Time) error {
	if err := c.ws.SetReadDeadline(t); err != nil {
		return err
	}
	return c.ws.SetWriteDeadline(t)
}
