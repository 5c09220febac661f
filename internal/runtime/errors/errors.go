package errors

import (
	sterrors "errors"
	"fmt"
)

var (
	ErrConnectionRequired = sterrors.New("kioskwire: connection is required")
	ErrListenerRequired   = sterrors.New("kioskwire: listener function is required")
	ErrTagRequired        = sterrors.New("kioskwire: event tag is required")
	ErrSenderRequired     = sterrors.New("kioskwire: sender is required for server-bound events")
	ErrSocketRequired     = sterrors.New("kioskwire: socket is required")
	ErrDuplicateVariant   = sterrors.New("kioskwire: duplicate variant tag")
	ErrMalformedFrame     = sterrors.New("kioskwire: malformed frame")
	ErrEnvelopeRequired   = sterrors.New("kioskwire: envelope is required")
	ErrNotRunning         = sterrors.New("kioskwire: connection is not running")
	ErrFrameTooLarge      = sterrors.New("kioskwire: frame exceeds the transport message size limit")

	ErrPayloadTypeRequired  = sterrors.New("kioskwire: typed listener payload type is required")
	ErrPayloadPointerNeeded = sterrors.New("kioskwire: typed listener payload type must be a pointer")

	// Category sentinels matched through errors.Is by the typed errors below.
	ErrMissingAttribute = sterrors.New("kioskwire: missing attribute")
	ErrUnknownVariant   = sterrors.New("kioskwire: unknown variant")
	ErrNoConsumer       = sterrors.New("kioskwire: no consumer")
	ErrTransportFailure = sterrors.New("kioskwire: transport failure")
	ErrListenerFailure  = sterrors.New("kioskwire: listener failure")
)

// MissingAttributeError is returned when an envelope is constructed without
// one of the fields its variant declares.
type MissingAttributeError struct {
	Tag   string
	Field string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("kioskwire: %s: missing attribute '%s'", e.Tag, e.Field)
}

func (e *MissingAttributeError) Is(target error) bool { return target == ErrMissingAttribute }

// UnknownVariantError is returned when a tag is not part of the catalog.
type UnknownVariantError struct {
	Tag string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("kioskwire: unknown variant %q", e.Tag)
}

func (e *UnknownVariantError) Is(target error) bool { return target == ErrUnknownVariant }

// NoConsumerError is returned when a dispatched envelope reached neither a
// local listener nor the wire.
type NoConsumerError struct {
	Tag string
}

func (e *NoConsumerError) Error() string {
	return fmt.Sprintf("kioskwire: dispatching event '%s', but no event handler registered", e.Tag)
}

func (e *NoConsumerError) Is(target error) bool { return target == ErrNoConsumer }

// TransportFailureError wraps socket level connect, send and receive faults.
type TransportFailureError struct {
	Op  string
	Err error
}

func (e *TransportFailureError) Error() string {
	if e.Err == nil {
		return "kioskwire: transport " + e.Op + " failed"
	}
	return "kioskwire: transport " + e.Op + " failed: " + e.Err.Error()
}

func (e *TransportFailureError) Unwrap() error { return e.Err }

func (e *TransportFailureError) Is(target error) bool { return target == ErrTransportFailure }

// ListenerError reports a listener that returned an error or panicked while
// an envelope was being dispatched.
type ListenerError struct {
	Tag   string
	Index int
	Err   error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("kioskwire: listener %d for '%s' failed: %v", e.Index, e.Tag, e.Err)
}

func (e *ListenerError) Unwrap() error { return e.Err }

func (e *ListenerError) Is(target error) bool { return target == ErrListenerFailure }
