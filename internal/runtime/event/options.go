package event

import "github.com/drblury/kioskwire/internal/runtime/catalog"

type options struct {
	id        string
	sender    catalog.Route
	recipient catalog.Route
}

// Option customises envelope construction.
type Option func(*options)

// WithID supplies an explicit correlation id instead of a generated one.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

func WithSender(r catalog.Route) Option {
	return func(o *options) { o.sender = r }
}

func WithRecipient(r catalog.Route) Option {
	return func(o *options) { o.recipient = r }
}

// FromTo sets sender and recipient together.
func FromTo(sender, recipient catalog.Route) Option {
	return func(o *options) {
		o.sender = sender
		o.recipient = recipient
	}
}
