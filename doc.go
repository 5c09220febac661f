// Package kioskwire is the typed event protocol spoken between a library
// self-service kiosk and its server. It reads the target transport
// (websocket, Go channels, NATS, RabbitMQ or Kafka) from Config, opens one
// persistent socket and routes envelopes between local listeners and the
// server.
//
// Connection hosts the socket and exposes the registry: Register a Listener
// for a wire tag, build envelopes through Connection.Builder and hand them to
// Dispatch. Server-bound envelopes are serialised into frames of the form
// {"event": tag, "message": payload, "event_id": id}; inbound frames are
// parsed back into envelopes and dispatched to the listeners. A minimal setup
// therefore involves filling Config, creating a Connection, registering
// listeners and calling Run.
//
// # Transports
//
// kioskwire supports 5 socket transports out of the box:
//   - websocket: Direct connection to the self-service server
//   - channel: In-memory Go channels for testing and loopback setups
//   - nats: Frames relayed through NATS subjects
//   - rabbitmq: AMQP-based durable queues
//   - kafka: Frames relayed through single-partition topics
//
// # Errors
//
// Envelope construction fails with *MissingAttributeError or
// *UnknownVariantError. Dispatch reports *ListenerError and *NoConsumerError.
// Socket faults surface as *TransportFailureError. Whatever goes wrong at the
// connection boundary is also dispatched locally as an exception envelope so
// the kiosk UI can react to it.
//
// When you need more control, ConnectionDependencies lets you bring your own
// TransportFactory, variant Catalog or Prometheus registerer.
package kioskwire
