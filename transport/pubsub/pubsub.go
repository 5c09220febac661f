// Package pubsub adapts a watermill Publisher/Subscriber pair into a
// transport.Socket. Outbound frames are published on one topic and inbound
// frames are consumed from another, so two peers sharing a broker talk to
// each other by swapping topics.
package pubsub

import (
	"context"
	"io"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/drblury/kioskwire/transport"
)

// Socket is a transport.Socket backed by a watermill publisher and subscriber.
type Socket struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	// PublishTopic receives the frames written with Send.
	PublishTopic string
	// SubscribeTopic is consumed by Receive.
	SubscribeTopic string
	Caps           transport.Capabilities
	Logger         watermill.LoggerAdapter
	// Shared leaves Publisher and Subscriber open on Close because other
	// sockets use the same pub/sub.
	Shared bool
	// Conn, when set, is closed after Publisher and Subscriber.
	Conn io.Closer

	mu       sync.Mutex
	messages <-chan *message.Message
	cancel   context.CancelFunc
	closed   bool
}

// Open subscribes to SubscribeTopic. The subscription lives until Close.
func (s *Socket) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return transport.ErrClosed
	}

	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	messages, err := s.Subscriber.Subscribe(subCtx, s.SubscribeTopic)
	if err != nil {
		cancel()
		return err
	}
	s.messages = messages
	s.cancel = cancel
	s.logger().Debug("Subscribed to inbound topic", watermill.LogFields{
		"topic":   s.SubscribeTopic,
		"publish": s.PublishTopic,
	})
	return nil
}

// Receive returns the payload of the next inbound message and acks it.
func (s *Socket) Receive(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	messages := s.messages
	s.mu.Unlock()

	if messages == nil {
		return nil, transport.ErrClosed
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg, ok := <-messages:
		if !ok {
			return nil, transport.ErrClosed
		}
		payload := append([]byte(nil), msg.Payload...)
		msg.Ack()
		return payload, nil
	}
}

// Send publishes frame on PublishTopic.
func (s *Socket) Send(ctx context.Context, frame []byte) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return transport.ErrClosed
	}

	msg := message.NewMessage(watermill.NewUUID(), frame)
	msg.SetContext(ctx)
	return s.Publisher.Publish(s.PublishTopic, msg)
}

// Close stops the subscription and closes publisher and subscriber.
// Closing twice is a no-op.
func (s *Socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if s.Shared {
		return nil
	}

	var firstErr error
	if err := s.Publisher.Close(); err != nil {
		firstErr = err
	}
	if any(s.Subscriber) != any(s.Publisher) {
		if err := s.Subscriber.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.Conn != nil {
		if err := s.Conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Capabilities reports the capabilities of the underlying broker.
func (s *Socket) Capabilities() transport.Capabilities {
	return s.Caps
}

func (s *Socket) logger() watermill.LoggerAdapter {
	if s.Logger == nil {
		return watermill.NopLogger{}
	}
	return s.Logger
}
