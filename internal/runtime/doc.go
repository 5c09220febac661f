/*
Package runtime implements the kiosk side of the kioskwire protocol.

# Architecture Overview

A Connection owns one socket to the self-service server. Frames read from
the socket are parsed into envelopes and handed to the Dispatcher, which
runs the registered listeners in registration order and forwards
server-bound envelopes to the socket. Failures at the connection boundary
never escape the read loop; they are turned into exception envelopes and
dispatched locally.

# Package Structure

## Connection (connection.go)

The Connection wires together:
  - Transport factory and socket lifecycle
  - Listener registry
  - Dispatcher with tracing
  - Prometheus metrics and the optional /metrics endpoint
  - The last public configuration received from the server

## Registry (registry.go)

Listeners keyed by wire tag. Registration returns a Handle used to remove
the listener again.

## Dispatcher (dispatcher.go)

Routes one envelope through listeners and the socket and reports
*NoConsumerError when nobody handled it.

# Sub-packages

  - catalog/: Wire tags, payload fields and per-variant descriptors
  - config/: Connection configuration with validation
  - errors/: Sentinel errors and error types
  - event/: Envelope construction, validation and the wire codec
  - ids/: Correlation ids and connection ULIDs
  - jsoncodec/: JSON marshaling utilities
  - logging/: Logger interface and adapters
  - transport/: Socket factory backed by the transport registry

# Usage Example

	conn, err := kioskwire.NewConnection(kioskwire.DefaultConfig(), logger, kioskwire.ConnectionDependencies{})
	if err != nil {
		return err
	}

	conn.Register(kioskwire.CheckOutComplete, func(ctx context.Context, env *kioskwire.Envelope) error {
		if env.HasState(kioskwire.StateItemCheckedOut) {
			showReceipt(env)
		}
		return nil
	})

	go conn.Run(ctx)
*/
package runtime
