// Package transports imports all built-in transports for auto-registration.
// Import this package to have all transports registered with the default registry.
package transports

import (
	// Import all transports for side-effect registration
	_ "github.com/drblury/kioskwire/transport/channel"
	_ "github.com/drblury/kioskwire/transport/kafka"
	_ "github.com/drblury/kioskwire/transport/nats"
	_ "github.com/drblury/kioskwire/transport/rabbitmq"
	_ "github.com/drblury/kioskwire/transport/websocket"
)
