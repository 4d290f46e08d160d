package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"time"

	"github.com/streamforge/rtmpwire/chunk"
	"github.com/streamforge/rtmpwire/message"
	"github.com/streamforge/rtmpwire/session"
)

// main dials a peer, runs the handshake, and measures one control-layer
// ping round trip.
func main() {
	var addr string
	var timeout time.Duration
	flag.StringVar(&addr, "addr", "", "peer address (host:port)")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "total dial+handshake+ping timeout")
	flag.Parse()

	if addr == "" {
		log.Fatal("missing -addr")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	start := time.Now()
	sess, err := session.Establish(ctx, conn, session.Options{
		HandshakeTimeout: timeout,
	})
	if err != nil {
		log.Fatal(err)
	}
	handshakeMs := time.Since(start).Milliseconds()

	pingStart := time.Now()
	if err := pingOnce(sess.Conn(), sess.Local().Epoch); err != nil {
		log.Fatal(err)
	}
	pingMs := time.Since(pingStart).Milliseconds()

	out := map[string]any{
		"local_epoch":  sess.Local().Epoch,
		"peer_epoch":   sess.Peer().Epoch,
		"handshake_ms": handshakeMs,
		"ping_ms":      pingMs,
	}
	_ = json.NewEncoder(os.Stdout).Encode(out)
}

func pingOnce(conn net.Conn, ts uint32) error {
	payload := message.EncodeEvent(message.PingRequest{Timestamp: ts})
	h, err := chunk.BeginStream(chunk.ProtocolControlStreamID, ts, uint32(len(payload)), message.TypeUserControl, 0)
	if err != nil {
		return err
	}
	buf, err := h.Append(nil)
	if err != nil {
		return err
	}
	if _, err := conn.Write(append(buf, payload...)); err != nil {
		return err
	}

	states := chunk.NewStreamStates()
	reply, err := chunk.ReadHeader(conn, states)
	if err != nil {
		return err
	}
	data := make([]byte, reply.MessageLength)
	if _, err := io.ReadFull(conn, data); err != nil {
		return err
	}
	if reply.MessageTypeID != message.TypeUserControl {
		return fmt.Errorf("unexpected reply type %d", reply.MessageTypeID)
	}
	event, err := message.DecodeEvent(data)
	if err != nil {
		return err
	}
	pong, ok := event.(message.PingResponse)
	if !ok {
		return fmt.Errorf("unexpected reply event %T", event)
	}
	if pong.Timestamp != ts {
		return fmt.Errorf("pong echoed timestamp %d, want %d", pong.Timestamp, ts)
	}
	return nil
}
