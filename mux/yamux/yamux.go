// Package yamux multiplexes independent protocol sessions over a single
// carrier connection. Each stream is a net.Conn, so a handshake and its
// chunk stream run over a stream exactly as they would over a raw socket.
package yamux

import (
	"net"

	"github.com/hashicorp/yamux"
)

// Carrier is one end of a multiplexed carrier connection.
type Carrier struct {
	s *yamux.Session
}

// NewClient wraps the dialing end of a carrier connection. A nil cfg uses
// yamux defaults.
func NewClient(conn net.Conn, cfg *yamux.Config) (*Carrier, error) {
	if cfg == nil {
		cfg = yamux.DefaultConfig()
	}
	s, err := yamux.Client(conn, cfg)
	if err != nil {
		return nil, err
	}
	return &Carrier{s: s}, nil
}

// NewServer wraps the accepting end of a carrier connection.
func NewServer(conn net.Conn, cfg *yamux.Config) (*Carrier, error) {
	if cfg == nil {
		cfg = yamux.DefaultConfig()
	}
	s, err := yamux.Server(conn, cfg)
	if err != nil {
		return nil, err
	}
	return &Carrier{s: s}, nil
}

// Open starts a new session stream; the caller runs a fresh handshake on it.
func (c *Carrier) Open() (net.Conn, error) {
	return c.s.Open()
}

// Accept waits for the peer to open a session stream.
func (c *Carrier) Accept() (net.Conn, error) {
	return c.s.Accept()
}

// NumStreams reports the number of live streams on the carrier.
func (c *Carrier) NumStreams() int {
	return c.s.NumStreams()
}

func (c *Carrier) Close() error {
	return c.s.Close()
}
