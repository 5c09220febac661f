package runtime

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/drblury/kioskwire/internal/runtime/catalog"
	errspkg "github.com/drblury/kioskwire/internal/runtime/errors"
	"github.com/drblury/kioskwire/internal/runtime/event"
	loggingpkg "github.com/drblury/kioskwire/internal/runtime/logging"
)

const tracerName = "github.com/drblury/kioskwire"

// Sender writes one serialised envelope to the wire.
type Sender interface {
	Send(ctx context.Context, frame []byte) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, frame []byte) error

func (f SenderFunc) Send(ctx context.Context, frame []byte) error { return f(ctx, frame) }

// Dispatcher fans an envelope out to the local listeners of its tag and, when
// its effective route is the server, to the Sender.
type Dispatcher struct {
	registry *Registry
	sender   Sender
	logger   loggingpkg.ServiceLogger
	metrics  *Metrics
	tracer   trace.Tracer

	// SendFailure, when set, receives send errors instead of the caller. The
	// send still counts as a consumer.
	SendFailure func(ctx context.Context, env *event.Envelope, err error)
}

// NewDispatcher wires a dispatcher. sender may be nil for a dispatcher that
// only serves local listeners; metrics may be nil.
func NewDispatcher(registry *Registry, sender Sender, logger loggingpkg.ServiceLogger, metrics *Metrics) *Dispatcher {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = loggingpkg.NewNopLogger()
	}
	return &Dispatcher{
		registry: registry,
		sender:   sender,
		logger:   logger,
		metrics:  metrics,
		tracer:   otel.Tracer(tracerName),
	}
}

// Dispatch runs the listeners registered for env's tag in registration
// order, then hands env to the Sender when its effective route is the
// server. A failing listener stops the dispatch with a *ListenerError. When
// neither a listener nor the Sender consumed env, Dispatch fails with a
// *NoConsumerError.
func (d *Dispatcher) Dispatch(ctx context.Context, env *event.Envelope) error {
	if env == nil {
		return errspkg.ErrEnvelopeRequired
	}

	start := time.Now()
	tag := env.Tag()
	route := env.Route()

	ctx, span := d.tracer.Start(ctx, "kioskwire.Dispatch",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("kioskwire.tag", tag),
			attribute.String("kioskwire.event_id", env.ID()),
			attribute.String("kioskwire.route", string(route)),
		),
	)
	defer span.End()

	d.logger.Debug("Dispatching envelope", loggingpkg.LogFields{
		"tag":       tag,
		"event_id":  env.ID(),
		"sender":    string(env.Sender()),
		"recipient": string(env.Recipient()),
		"route":     string(route),
	})

	consumers := 0
	for i, listener := range d.registry.Listeners(tag) {
		if err := invokeListener(ctx, listener, env); err != nil {
			lerr := &errspkg.ListenerError{Tag: tag, Index: i, Err: err}
			span.RecordError(lerr)
			span.SetStatus(codes.Error, "listener failed")
			d.metrics.recordDispatch(tag, string(route), time.Since(start))
			return lerr
		}
		consumers++
		d.metrics.recordListener(tag)
	}

	if route == catalog.RouteServer {
		if err := d.send(ctx, env); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "send failed")
			if d.SendFailure == nil {
				d.metrics.recordDispatch(tag, string(route), time.Since(start))
				return err
			}
			d.SendFailure(ctx, env, err)
		}
		consumers++
	}

	span.SetAttributes(attribute.Int("kioskwire.consumers", consumers))
	d.metrics.recordDispatch(tag, string(route), time.Since(start))

	if consumers == 0 {
		d.metrics.recordNoConsumer(tag)
		span.SetStatus(codes.Error, "no consumer")
		return &errspkg.NoConsumerError{Tag: tag}
	}
	return nil
}

func (d *Dispatcher) send(ctx context.Context, env *event.Envelope) error {
	if d.sender == nil {
		return errspkg.ErrSenderRequired
	}
	frame, err := event.Marshal(env)
	if err != nil {
		return err
	}
	err = d.sender.Send(ctx, frame)
	d.metrics.recordSend(env.Tag(), err)
	if err != nil {
		return &errspkg.TransportFailureError{Op: "send", Err: err}
	}
	d.logger.Debug("Sent envelope", loggingpkg.LogFields{
		"tag":      env.Tag(),
		"event_id": env.ID(),
		"bytes":    len(frame),
	})
	return nil
}

// invokeListener runs l, turning a panic into an error.
func invokeListener(ctx context.Context, l Listener, env *event.Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return l(ctx, env)
}
