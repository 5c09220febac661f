// Package channel provides an in-memory transport on top of the watermill
// gochannel pub/sub. Kiosk and server peers in the same process exchange
// frames over swapped topics, which is useful for tests and local demos.
package channel

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/drblury/kioskwire/transport"
	"github.com/drblury/kioskwire/transport/pubsub"
)

// TransportName is the name used to register this transport.
const TransportName = "channel"

// Default topics used by NewPair.
const (
	DefaultServerTopic = "kioskwire.server"
	DefaultClientTopic = "kioskwire.client"
)

// Factory allows overriding the channel creation for testing.
var Factory = func(cfg gochannel.Config, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber) {
	pubSub := gochannel.NewGoChannel(cfg, logger)
	return pubSub, pubSub
}

var (
	busMu  sync.Mutex
	busPub message.Publisher
	busSub message.Subscriber
)

func init() {
	transport.RegisterWithCapabilities(TransportName, Build, transport.ChannelCapabilities)
}

// Build returns the kiosk side of the process-wide bus. The matching server
// side is obtained with ServerSocket.
func Build(ctx context.Context, cfg transport.Config, logger watermill.LoggerAdapter) (transport.Socket, error) {
	pub, sub := sharedBus(logger)
	return &pubsub.Socket{
		Publisher:      pub,
		Subscriber:     sub,
		PublishTopic:   cfg.GetServerTopic(),
		SubscribeTopic: cfg.GetClientTopic(),
		Caps:           transport.ChannelCapabilities,
		Logger:         logger,
		Shared:         true,
	}, nil
}

// ServerSocket returns the server side of the process-wide bus: it consumes
// what Build's socket sends and the other way round.
func ServerSocket(cfg transport.Config, logger watermill.LoggerAdapter) transport.Socket {
	pub, sub := sharedBus(logger)
	return &pubsub.Socket{
		Publisher:      pub,
		Subscriber:     sub,
		PublishTopic:   cfg.GetClientTopic(),
		SubscribeTopic: cfg.GetServerTopic(),
		Caps:           transport.ChannelCapabilities,
		Logger:         logger,
		Shared:         true,
	}
}

// NewPair creates an isolated bus and returns its kiosk and server sockets.
// Closing the kiosk socket closes the bus.
func NewPair(logger watermill.LoggerAdapter) (client, server transport.Socket) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	pub, sub := Factory(gochannel.Config{}, logger)
	client = &pubsub.Socket{
		Publisher:      pub,
		Subscriber:     sub,
		PublishTopic:   DefaultServerTopic,
		SubscribeTopic: DefaultClientTopic,
		Caps:           transport.ChannelCapabilities,
		Logger:         logger,
	}
	server = &pubsub.Socket{
		Publisher:      pub,
		Subscriber:     sub,
		PublishTopic:   DefaultClientTopic,
		SubscribeTopic: DefaultServerTopic,
		Caps:           transport.ChannelCapabilities,
		Logger:         logger,
		Shared:         true,
	}
	return client, server
}

// ResetBus closes the process-wide bus so the next Build starts fresh.
func ResetBus() error {
	busMu.Lock()
	defer busMu.Unlock()
	if busPub == nil {
		return nil
	}
	err := busPub.Close()
	busPub, busSub = nil, nil
	return err
}

func sharedBus(logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber) {
	busMu.Lock()
	defer busMu.Unlock()
	if busPub == nil {
		if logger == nil {
			logger = watermill.NopLogger{}
		}
		busPub, busSub = Factory(gochannel.Config{}, logger)
	}
	return busPub, busSub
}

// Capabilities returns the capabilities of this transport.
func Capabilities() transport.Capabilities {
	return transport.ChannelCapabilities
}
