// Package transport defines the socket abstraction a kiosk connection runs
// over. Each implementation (websocket, channel, nats, rabbitmq, kafka) lives
// in its own sub-package and registers itself with the transport registry.
package transport

import (
	"context"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// ErrClosed is returned by Receive once the socket was closed by either side.
var ErrClosed = errors.New("kioskwire: socket closed")

// Socket is one persistent, ordered, bidirectional text-frame channel.
//
// Receive is only ever called from a single goroutine. Send may be called
// concurrently with Receive but implementations serialise their own writes.
type Socket interface {
	// Open establishes the connection.
	Open(ctx context.Context) error
	// Receive blocks until the next inbound frame is available. It returns
	// ErrClosed after an orderly close.
	Receive(ctx context.Context) ([]byte, error)
	// Send writes one frame.
	Send(ctx context.Context, frame []byte) error
	Close() error
}

// Builder is the function signature for creating a socket from config.
type Builder func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Socket, error)

// Config provides the values transports need without depending on the full
// config package.
type Config interface {
	// GetTransport returns the transport name.
	GetTransport() string

	// Websocket
	GetServerURL() string
	GetHandshakeTimeout() time.Duration
	GetWriteTimeout() time.Duration

	// Broker-backed transports publish client frames on the server topic and
	// consume server frames from the client topic.
	GetServerTopic() string
	GetClientTopic() string

	// NATS
	GetNATSURL() string

	// RabbitMQ
	GetRabbitMQURL() string

	// Kafka
	GetKafkaBrokers() []string
	GetKafkaConsumerGroup() string
}

// CapabilitiesProvider is implemented by sockets that can report their capabilities.
type CapabilitiesProvider interface {
	Capabilities() Capabilities
}
