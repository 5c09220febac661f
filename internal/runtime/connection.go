package runtime

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/drblury/kioskwire/internal/runtime/catalog"
	configpkg "github.com/drblury/kioskwire/internal/runtime/config"
	errspkg "github.com/drblury/kioskwire/internal/runtime/errors"
	"github.com/drblury/kioskwire/internal/runtime/event"
	"github.com/drblury/kioskwire/internal/runtime/ids"
	loggingpkg "github.com/drblury/kioskwire/internal/runtime/logging"
	transportpkg "github.com/drblury/kioskwire/internal/runtime/transport"
	sockets "github.com/drblury/kioskwire/transport"
)

// ConnectionDependencies holds the optional collaborators of a Connection.
// Leave fields nil to use the defaults.
type ConnectionDependencies struct {
	// TransportFactory builds the socket. Defaults to the transport registry.
	TransportFactory transportpkg.Factory
	// Catalog replaces the built-in variant catalog.
	Catalog *catalog.Catalog
	// Registerer receives the dispatcher metrics. When nil, metrics are only
	// collected if the config enables them, on the default registerer.
	Registerer prometheus.Registerer
	// Gatherer backs the /metrics endpoint. Defaults to the Prometheus
	// default gatherer.
	Gatherer prometheus.Gatherer
}

type dispatchKey struct{}

type queuedDispatch struct {
	ctx context.Context
	env *event.Envelope
}

// Connection is one kiosk session: a socket plus the listeners and the
// dispatcher that route envelopes between local code and the server.
//
// Dispatches are serialised: inbound frames, lifecycle events and calls to
// Dispatch never run concurrently. A listener that dispatches with the
// context it was handed runs the nested dispatch immediately. A Dispatch
// arriving with any other context while a dispatch is in progress is queued
// and runs once the current one finishes.
type Connection struct {
	Conf   *configpkg.Config
	Logger loggingpkg.ServiceLogger

	id         string
	builder    *event.Builder
	registry   *Registry
	dispatcher *Dispatcher
	factory    transportpkg.Factory
	metrics    *Metrics
	gatherer   prometheus.Gatherer
	wmLogger   watermill.LoggerAdapter

	queueMu     sync.Mutex
	dispatching bool
	queue       []queuedDispatch

	mu           sync.Mutex
	socket       sockets.Socket
	maxFrame     int64
	running      bool
	closed       bool
	publicConfig map[string]any
}

// NewConnection fills conf defaults, validates it and wires a Connection. Register listeners on
// the returned Connection before calling Run.
func NewConnection(conf *configpkg.Config, log loggingpkg.ServiceLogger, deps ConnectionDependencies) (*Connection, error) {
	if conf == nil {
		conf = configpkg.Default()
	}
	conf.ApplyDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = loggingpkg.NewNopLogger()
	}

	cat := deps.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	for _, tag := range []string{catalog.Exception, catalog.ServerConnected, catalog.ServerDisconnected, catalog.ConfigGetPublicResponse} {
		if !cat.Has(tag) {
			return nil, fmt.Errorf("kioskwire: catalog lacks required variant %q", tag)
		}
	}

	factory := deps.TransportFactory
	if factory == nil {
		factory = transportpkg.DefaultFactory()
	}

	var metrics *Metrics
	if deps.Registerer != nil || conf.MetricsEnabled {
		metrics = NewMetrics(deps.Registerer)
		if err := metrics.Register(); err != nil {
			return nil, err
		}
	}

	id := ids.ConnectionID()
	log = log.With(loggingpkg.LogFields{"connection_id": id})

	c := &Connection{
		Conf:     conf,
		Logger:   log,
		id:       id,
		builder:  event.NewBuilder(cat, ids.NewSequence()),
		registry: NewRegistry(),
		factory:  factory,
		metrics:  metrics,
		gatherer: deps.Gatherer,
		wmLogger: loggingpkg.NewWatermillAdapter(log),
	}
	c.dispatcher = NewDispatcher(c.registry, SenderFunc(c.write), log, metrics)
	c.dispatcher.SendFailure = func(ctx context.Context, _ *event.Envelope, err error) {
		c.raise(ctx, err)
	}

	if _, err := c.registry.Register(catalog.ConfigGetPublicResponse, c.storePublicConfig); err != nil {
		return nil, err
	}

	log.Info("Created kiosk connection", loggingpkg.LogFields{
		"transport": conf.Transport,
		"config":    conf.String(),
	})
	return c, nil
}

// ID returns the connection ULID used in logs.
func (c *Connection) ID() string { return c.id }

// Builder returns the envelope builder owning this connection's correlation
// id sequence.
func (c *Connection) Builder() *event.Builder { return c.builder }

// Register adds a listener for tag. Unknown tags are rejected with an
// *UnknownVariantError.
func (c *Connection) Register(tag string, l Listener) (Handle, error) {
	if tag != "" && !c.builder.Catalog().Has(tag) {
		return Handle{}, &errspkg.UnknownVariantError{Tag: tag}
	}
	return c.registry.Register(tag, l)
}

// Unregister removes a listener added with Register.
func (c *Connection) Unregister(h Handle) bool {
	return c.registry.Unregister(h)
}

// Dispatch routes env through the local listeners and, for server-bound
// envelopes, to the socket. Listener failures and *NoConsumerError are
// returned to the caller.
//
// When another dispatch is in progress and ctx is not the one handed to a
// listener, env is queued behind it and Dispatch returns nil at once; a
// failure of the queued dispatch is raised as an exception envelope.
func (c *Connection) Dispatch(ctx context.Context, env *event.Envelope) error {
	if owner, _ := ctx.Value(dispatchKey{}).(*Connection); owner == c {
		return c.dispatcher.Dispatch(ctx, env)
	}

	c.queueMu.Lock()
	if c.dispatching {
		c.queue = append(c.queue, queuedDispatch{ctx: ctx, env: env})
		c.queueMu.Unlock()
		return nil
	}
	c.dispatching = true
	c.queueMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			c.queueMu.Lock()
			c.dispatching = false
			c.queue = nil
			c.queueMu.Unlock()
			panic(r)
		}
	}()

	err := c.dispatcher.Dispatch(context.WithValue(ctx, dispatchKey{}, c), env)
	c.drainQueue()
	return err
}

// drainQueue runs the dispatches queued while the caller held the dispatch
// turn and gives the turn up once the queue is empty.
func (c *Connection) drainQueue() {
	for {
		c.queueMu.Lock()
		if len(c.queue) == 0 {
			c.dispatching = false
			c.queueMu.Unlock()
			return
		}
		next := c.queue[0]
		c.queue = c.queue[1:]
		c.queueMu.Unlock()

		ctx := context.WithValue(next.ctx, dispatchKey{}, c)
		if err := c.dispatcher.Dispatch(ctx, next.env); err != nil {
			c.raise(ctx, err)
		}
	}
}

// Emit builds an envelope of tag and dispatches it. Dispatch documents how
// calls made from inside a listener are ordered.
func (c *Connection) Emit(ctx context.Context, tag string, fields event.Fields, opts ...event.Option) error {
	env, err := c.builder.New(tag, fields, opts...)
	if err != nil {
		return err
	}
	return c.Dispatch(ctx, env)
}

// Send writes a serialised envelope to the socket. A failure is dispatched
// locally as an exception envelope and reported as false.
func (c *Connection) Send(ctx context.Context, frame []byte) bool {
	if err := c.write(ctx, frame); err != nil {
		c.raise(ctx, &errspkg.TransportFailureError{Op: "send", Err: err})
		return false
	}
	return true
}

func (c *Connection) write(ctx context.Context, frame []byte) error {
	c.mu.Lock()
	s, limit := c.socket, c.maxFrame
	c.mu.Unlock()
	if s == nil {
		return errspkg.ErrNotRunning
	}
	if limit > 0 && int64(len(frame)) > limit {
		return fmt.Errorf("%w: %d bytes, limit %d", errspkg.ErrFrameTooLarge, len(frame), limit)
	}
	return s.Send(ctx, frame)
}

// Connected reports whether the socket is open.
func (c *Connection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.socket != nil
}

// PublicConfig returns the last configuration received through
// config-getpublic-response, or nil before the first one.
func (c *Connection) PublicConfig() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.publicConfig)
}

func (c *Connection) storePublicConfig(_ context.Context, env *event.Envelope) error {
	v, _ := env.Field(catalog.FieldConfig)
	cfg, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("kioskwire: config is %T, want an object", v)
	}
	c.mu.Lock()
	c.publicConfig = maps.Clone(cfg)
	c.mu.Unlock()
	return nil
}

// Run opens the socket and processes inbound frames until the socket closes,
// ctx is cancelled or Close is called. It dispatches server-connected once
// the socket is open and server-disconnected when it goes away.
//
// Connect and receive failures are dispatched as exception envelopes, not
// returned. Run only fails when the connection was closed or is already
// running.
func (c *Connection) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return sockets.ErrClosed
	}
	if c.running {
		c.mu.Unlock()
		return errors.New("kioskwire: connection is already running")
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.socket = nil
		c.maxFrame = 0
		c.mu.Unlock()
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if c.Conf.MetricsEnabled {
		server := NewMetricsServer(c.Conf.MetricsPort, c.gatherer, c.Logger)
		server.Handle("/api/listeners", c.StatusHandler())
		server.Start(runCtx)
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer stop()
			if err := server.Shutdown(shutdownCtx); err != nil {
				c.Logger.Error("Failed to stop metrics server", err, nil)
			}
		}()
	}

	socket, err := c.open(ctx)
	if err != nil {
		terr := &errspkg.TransportFailureError{Op: "connect", Err: err}
		c.Logger.Error("Failed to connect", terr, loggingpkg.LogFields{"transport": c.Conf.Transport})
		c.raise(ctx, terr)
		c.dispatchBoundary(ctx, c.builder.ServerDisconnected())
		return nil
	}
	defer func() { _ = socket.Close() }()

	c.Logger.Info("Connected", loggingpkg.LogFields{"transport": c.Conf.Transport})
	c.dispatchBoundary(ctx, c.builder.ServerConnected())

	c.readLoop(ctx, socket)

	c.mu.Lock()
	c.socket = nil
	c.mu.Unlock()

	c.Logger.Info("Disconnected", loggingpkg.LogFields{"transport": c.Conf.Transport})
	c.dispatchBoundary(context.WithoutCancel(ctx), c.builder.ServerDisconnected())
	return nil
}

func (c *Connection) open(ctx context.Context) (sockets.Socket, error) {
	socket, err := c.factory.Build(ctx, c.Conf, c.wmLogger)
	if err != nil {
		return nil, err
	}
	if err := socket.Open(ctx); err != nil {
		_ = socket.Close()
		return nil, err
	}

	caps, hasCaps := capabilitiesOf(socket)
	if hasCaps && !caps.PreservesArrivalOrder() {
		c.Logger.Info("Transport does not preserve arrival order; inbound envelopes may dispatch out of order", loggingpkg.LogFields{
			"transport": caps.Name,
			"ordered":   false,
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		_ = socket.Close()
		return nil, sockets.ErrClosed
	}
	c.socket = socket
	c.maxFrame = caps.MaxMessageSize
	return socket, nil
}

func capabilitiesOf(socket sockets.Socket) (sockets.Capabilities, bool) {
	p, ok := socket.(sockets.CapabilitiesProvider)
	if !ok {
		return sockets.Capabilities{}, false
	}
	return p.Capabilities(), true
}

func (c *Connection) readLoop(ctx context.Context, socket sockets.Socket) {
	for {
		frame, err := socket.Receive(ctx)
		if err != nil {
			if errors.Is(err, sockets.ErrClosed) || ctx.Err() != nil {
				return
			}
			terr := &errspkg.TransportFailureError{Op: "receive", Err: err}
			c.Logger.Error("Receive failed", terr, nil)
			c.raise(ctx, terr)
			return
		}
		c.handleFrame(ctx, frame)
	}
}

func (c *Connection) handleFrame(ctx context.Context, frame []byte) {
	env, err := c.builder.Parse(frame, event.FromTo(catalog.RouteServer, catalog.RouteClient))
	if err != nil {
		c.Logger.Error("Dropping inbound frame", err, loggingpkg.LogFields{"bytes": len(frame)})
		c.raise(ctx, err)
		return
	}
	c.dispatchBoundary(ctx, env)
}

// dispatchBoundary dispatches env and turns any failure into an exception
// envelope so a faulty listener cannot stop the read loop.
func (c *Connection) dispatchBoundary(ctx context.Context, env *event.Envelope) {
	if err := c.Dispatch(ctx, env); err != nil {
		c.raise(ctx, err)
	}
}

// raise dispatches err as an exception envelope addressed to the kiosk
// itself. If that dispatch fails too the error is only logged.
func (c *Connection) raise(ctx context.Context, err error) {
	exc := c.builder.Exception(err, event.FromTo(catalog.RouteClient, catalog.RouteClient))
	c.metrics.recordException(exc.String(catalog.FieldEType))
	c.Logger.Error("Raising exception envelope", err, loggingpkg.LogFields{"event_id": exc.ID()})

	if derr := c.Dispatch(ctx, exc); derr != nil {
		c.Logger.Error("Dropped exception envelope", derr, loggingpkg.LogFields{
			"event_id": exc.ID(),
			"cause":    err.Error(),
		})
	}
}

// Close stops Run and closes the socket. Closing twice is a no-op.
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	s := c.socket
	c.mu.Unlock()

	if s == nil {
		return nil
	}
	return s.Close()
}
