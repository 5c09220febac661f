// Package websocket provides the default kiosk transport: one persistent
// websocket to the kiosk server carrying JSON text frames.
package websocket

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/gorilla/websocket"

	"github.com/drblury/kioskwire/transport"
)

// TransportName is the name used to register this transport.
const TransportName = "websocket"

// DialerFactory allows overriding the dialer for testing.
var DialerFactory = func(handshakeTimeout time.Duration) *websocket.Dialer {
	return &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}
}

func init() {
	transport.RegisterWithCapabilities(TransportName, Build, transport.WebsocketCapabilities)
}

// Build returns an unopened websocket socket for cfg.GetServerURL().
func Build(ctx context.Context, cfg transport.Config, logger watermill.LoggerAdapter) (transport.Socket, error) {
	url := cfg.GetServerURL()
	if url == "" {
		return nil, fmt.Errorf("websocket: server url is required")
	}
	return &Socket{
		URL:          url,
		Dialer:       DialerFactory(cfg.GetHandshakeTimeout()),
		WriteTimeout: cfg.GetWriteTimeout(),
		logger:       logger,
	}, nil
}

// Capabilities returns the capabilities of this transport.
func Capabilities() transport.Capabilities {
	return transport.WebsocketCapabilities
}

// Socket is a client websocket. Writes are serialised; reads must come from
// a single goroutine.
type Socket struct {
	URL          string
	Dialer       *websocket.Dialer
	WriteTimeout time.Duration

	logger  watermill.LoggerAdapter
	writeMu sync.Mutex
	mu      sync.Mutex
	conn    *websocket.Conn
	closed  bool
}

// Open dials the server.
func (s *Socket) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return transport.ErrClosed
	}

	dialer := s.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, resp, err := dialer.DialContext(ctx, s.URL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return err
	}
	s.conn = conn
	s.log().Info("Websocket connected", watermill.LogFields{"url": s.URL})
	return nil
}

// Receive reads the next text frame. Orderly closes, from either side, are
// reported as transport.ErrClosed. Cancelling ctx aborts the read and leaves
// the socket unreadable.
func (s *Socket) Receive(ctx context.Context) ([]byte, error) {
	conn := s.current()
	if conn == nil {
		return nil, transport.ErrClosed
	}

	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if s.isClosed() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, transport.ErrClosed
			}
			return nil, err
		}
		if kind == websocket.TextMessage || kind == websocket.BinaryMessage {
			return data, nil
		}
	}
}

// Send writes frame as one text message.
func (s *Socket) Send(ctx context.Context, frame []byte) error {
	conn := s.current()
	if conn == nil {
		return transport.ErrClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	deadline := time.Time{}
	if s.WriteTimeout > 0 {
		deadline = time.Now().Add(s.WriteTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, frame)
}

// Close sends a close frame and tears down the connection. Closing twice is a
// no-op.
func (s *Socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return nil
	}

	// The peer may already be gone, so a failed close frame is not an error.
	s.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	s.writeMu.Unlock()

	err := conn.Close()
	s.log().Info("Websocket closed", watermill.LogFields{"url": s.URL})
	return err
}

// Capabilities reports WebsocketCapabilities.
func (s *Socket) Capabilities() transport.Capabilities {
	return transport.WebsocketCapabilities
}

func (s *Socket) current() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.conn
}

func (s *Socket) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Socket) log() watermill.LoggerAdapter {
	if s.logger == nil {
		return watermill.NopLogger{}
	}
	return s.logger
}
