package runtime

import (
	"context"
	"fmt"
	"reflect"

	errspkg "github.com/drblury/kioskwire/internal/runtime/errors"
	"github.com/drblury/kioskwire/internal/runtime/event"
	"github.com/drblury/kioskwire/internal/runtime/jsoncodec"
)

// TypedListener handles an envelope whose payload was decoded into T.
type TypedListener[T any] func(ctx context.Context, payload T) error

// BuildTypedListener wraps fn in a Listener that decodes the envelope
// payload into a fresh T before calling it. T must be a pointer type such as
// *event.CheckOutComplete. A payload that does not decode fails the
// dispatch like any other listener error.
func BuildTypedListener[T any](fn TypedListener[T]) (Listener, error) {
	if fn == nil {
		return nil, errspkg.ErrListenerRequired
	}
	newPayload, err := payloadFactory[T]()
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, env *event.Envelope) error {
		payload := newPayload()
		if err := decodePayload(env, payload); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", env.Tag(), err)
		}
		return fn(ctx, payload)
	}, nil
}

// RegisterTyped registers fn for tag on c with the payload decoded into T.
func RegisterTyped[T any](c *Connection, tag string, fn TypedListener[T]) (Handle, error) {
	if c == nil {
		return Handle{}, errspkg.ErrConnectionRequired
	}
	l, err := BuildTypedListener(fn)
	if err != nil {
		return Handle{}, err
	}
	return c.Register(tag, l)
}

func payloadFactory[T any]() (func() T, error) {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ == nil {
		return nil, errspkg.ErrPayloadTypeRequired
	}
	if typ.Kind() != reflect.Ptr {
		return nil, errspkg.ErrPayloadPointerNeeded
	}
	elem := typ.Elem()
	return func() T {
		return reflect.New(elem).Interface().(T)
	}, nil
}

// decodePayload goes through the codec so locally built envelopes, whose
// fields may hold Go values, decode the same way as parsed frames.
func decodePayload(env *event.Envelope, dst any) error {
	data, err := jsoncodec.Marshal(env.Payload())
	if err != nil {
		return err
	}
	return jsoncodec.Unmarshal(data, dst)
}
