package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/streamforge/rtmpwire/chunk"
	"github.com/streamforge/rtmpwire/message"
	"github.com/streamforge/rtmpwire/observability"
	"github.com/streamforge/rtmpwire/observability/prom"
	"github.com/streamforge/rtmpwire/session"
)

type switchHandler struct {
	mu      sync.RWMutex
	handler http.Handler
}

func newSwitchHandler() *switchHandler {
	return &switchHandler{handler: http.NotFoundHandler()}
}

func (h *switchHandler) Set(next http.Handler) {
	if next == nil {
		next = http.NotFoundHandler()
	}
	h.mu.Lock()
	h.handler = next
	h.mu.Unlock()
}

func (h *switchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	handler := h.handler
	h.mu.RUnlock()
	handler.ServeHTTP(w, r)
}

type metricsController struct {
	mu       sync.Mutex
	enabled  bool
	handler  *switchHandler
	observer *observability.AtomicSessionObserver
}

func (c *metricsController) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled {
		return
	}
	reg := prom.NewRegistry()
	c.handler.Set(prom.Handler(reg))
	c.observer.Set(prom.NewSessionObserver(reg))
	c.enabled = true
}

func (c *metricsController) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	c.handler.Set(nil)
	c.observer.Set(nil)
	c.enabled = false
}

// serveConn runs the handshake and then a control-message loop: every
// protocol control or user control event is logged, and ping requests are
// answered.
func serveConn(ctx context.Context, conn net.Conn, opts session.Options) {
	defer conn.Close()

	sess, err := session.Establish(ctx, conn, opts)
	if err != nil {
		log.Printf("%s: handshake failed: %v", conn.RemoteAddr(), err)
		return
	}
	log.Printf("%s: established, peer epoch %d", conn.RemoteAddr(), sess.Peer().Epoch)

	states := chunk.NewStreamStates()
	for {
		h, err := chunk.ReadHeader(sess.Conn(), states)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("%s: read: %v", conn.RemoteAddr(), err)
			}
			return
		}
		payload := make([]byte, h.MessageLength)
		if _, err := io.ReadFull(sess.Conn(), payload); err != nil {
			log.Printf("%s: read payload: %v", conn.RemoteAddr(), err)
			return
		}

		switch h.MessageTypeID {
		case message.TypeUserControl:
			event, err := message.DecodeEvent(payload)
			if err != nil {
				log.Printf("%s: bad event: %v", conn.RemoteAddr(), err)
				return
			}
			log.Printf("%s: event %T%+v", conn.RemoteAddr(), event, event)
			if ping, ok := event.(message.PingRequest); ok {
				if err := writeEvent(sess.Conn(), h.Timestamp, message.PingResponse{Timestamp: ping.Timestamp}); err != nil {
					log.Printf("%s: pong: %v", conn.RemoteAddr(), err)
					return
				}
			}
		default:
			c, err := message.DecodeControl(h.MessageTypeID, payload)
			if err != nil {
				log.Printf("%s: bad control: %v", conn.RemoteAddr(), err)
				return
			}
			log.Printf("%s: control %T%+v", conn.RemoteAddr(), c, c)
			if abort, ok := c.(message.Abort); ok {
				states.Abort(abort.ChunkStreamID)
			}
		}
	}
}

func writeEvent(conn net.Conn, ts uint32, e message.Event) error {
	payload := message.EncodeEvent(e)
	h, err := chunk.BeginStream(chunk.ProtocolControlStreamID, ts, uint32(len(payload)), message.TypeUserControl, 0)
	if err != nil {
		return err
	}
	buf, err := h.Append(nil)
	if err != nil {
		return err
	}
	_, err = conn.Write(append(buf, payload...))
	return err
}

// main launches a handshake server with CLI-configurable settings.
func main() {
	var listen string
	var metricsListen string
	var ioTimeout time.Duration
	var handshakeTimeout time.Duration
	flag.StringVar(&listen, "listen", "127.0.0.1:0", "listen address")
	flag.StringVar(&metricsListen, "metrics-listen", "", "metrics HTTP listen address (empty disables)")
	flag.DurationVar(&ioTimeout, "io-timeout", 10*time.Second, "per-read/write handshake timeout (0 disables)")
	flag.DurationVar(&handshakeTimeout, "handshake-timeout", 30*time.Second, "total handshake timeout (0 disables)")
	flag.Parse()

	observer := &observability.AtomicSessionObserver{}
	opts := session.Options{
		Observer:         observer,
		IOTimeout:        ioTimeout,
		HandshakeTimeout: handshakeTimeout,
	}

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		log.Fatal(err)
	}
	defer ln.Close()

	metricsHandler := newSwitchHandler()
	metrics := &metricsController{handler: metricsHandler, observer: observer}
	if metricsListen != "" {
		metrics.Enable()
		srv := &http.Server{
			Handler:           metricsHandler,
			ReadHeaderTimeout: 5 * time.Second,
		}
		mln, err := net.Listen("tcp", metricsListen)
		if err != nil {
			log.Fatal(err)
		}
		go func() {
			if err := srv.Serve(mln); err != nil && err != http.ErrServerClosed {
				log.Fatal(err)
			}
		}()
	}

	ready := map[string]string{
		"listen": ln.Addr().String(),
	}
	_ = json.NewEncoder(os.Stdout).Encode(ready)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveConn(ctx, conn, opts)
		}
	}()

	// SIGUSR1/SIGUSR2 toggle metrics at runtime; anything else shuts down.
	sig := make(chan os.Signal, 2)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)
	for {
		switch <-sig {
		case syscall.SIGUSR1:
			metrics.Enable()
			log.Printf("metrics enabled")
		case syscall.SIGUSR2:
			metrics.Disable()
			log.Printf("metrics disabled")
		default:
			cancel()
			return
		}
	}
}
