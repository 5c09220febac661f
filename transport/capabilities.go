package transport

// Capabilities describes the delivery properties of a transport backend.
type Capabilities struct {
	// SupportsOrdering indicates frames arrive in the order they were sent.
	SupportsOrdering bool

	// SupportsAck indicates inbound frames are acknowledged to the broker.
	SupportsAck bool

	// Persistent indicates frames survive a peer being offline.
	Persistent bool

	// Brokered indicates frames travel through an intermediate broker
	// instead of a direct socket.
	Brokered bool

	// MaxMessageSize is the maximum frame size in bytes (0 = unlimited/unknown).
	MaxMessageSize int64

	// Name is the human-readable name of the transport.
	Name string
}

// PreservesArrivalOrder reports whether the dispatcher can rely on the
// transport for message arrival order.
func (c Capabilities) PreservesArrivalOrder() bool {
	return c.SupportsOrdering
}

// Predefined capability sets for the built-in transports.
var (
	WebsocketCapabilities = Capabilities{
		Name:             "websocket",
		SupportsOrdering: true,
	}

	// ChannelCapabilities for the in-memory watermill gochannel transport.
	ChannelCapabilities = Capabilities{
		Name:             "channel",
		SupportsOrdering: true,
		SupportsAck:      true,
		Brokered:         true,
	}

	NATSCapabilities = Capabilities{
		Name:           "nats",
		Brokered:       true,
		MaxMessageSize: 1048576, // Default 1MB
	}

	RabbitMQCapabilities = Capabilities{
		Name:             "rabbitmq",
		SupportsOrdering: true,
		SupportsAck:      true,
		Persistent:       true,
		Brokered:         true,
	}

	KafkaCapabilities = Capabilities{
		Name:             "kafka",
		SupportsOrdering: true,
		SupportsAck:      true,
		Persistent:       true,
		Brokered:         true,
		MaxMessageSize:   1048576, // Default 1MB
	}
)

// GetCapabilities returns the capabilities for a transport by name.
// Returns a zero Capabilities struct if the transport is unknown.
func GetCapabilities(transportName string) Capabilities {
	return DefaultRegistry.GetCapabilities(transportName)
}
