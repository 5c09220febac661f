// Package event builds, validates and serialises envelopes: single
// occurrences of a catalog variant travelling between kiosk and server.
package event

import (
	"maps"

	"github.com/drblury/kioskwire/internal/runtime/catalog"
	"github.com/drblury/kioskwire/internal/runtime/ids"
)

// Fields carries payload values keyed by field name.
type Fields map[string]any

// Envelope is one message occurrence. Tag and ID never change after
// construction; accessors hand out copies of mutable state.
type Envelope struct {
	desc      catalog.Descriptor
	id        string
	sender    catalog.Route
	recipient catalog.Route
	payload   Fields
}

// Tag returns the wire tag.
func (e *Envelope) Tag() string { return e.desc.Tag }

// ID returns the correlation id. It is used for tracing only; responses do
// not echo the id of their request.
func (e *Envelope) ID() string { return e.id }

func (e *Envelope) Sender() catalog.Route    { return e.sender }
func (e *Envelope) Recipient() catalog.Route { return e.recipient }

// DefaultRoute is the route inherited from the variant.
func (e *Envelope) DefaultRoute() catalog.Route { return e.desc.DefaultRoute }

// Route returns the recipient when set and the variant's default otherwise.
func (e *Envelope) Route() catalog.Route {
	if e.recipient != catalog.RouteUnset {
		return e.recipient
	}
	return e.desc.DefaultRoute
}

// Descriptor returns the variant this envelope was built from.
func (e *Envelope) Descriptor() catalog.Descriptor { return e.desc }

// Payload returns a shallow copy of the declared fields present on the
// envelope.
func (e *Envelope) Payload() Fields {
	return maps.Clone(e.payload)
}

// Field returns the value of name and whether it is present.
func (e *Envelope) Field(name string) (any, bool) {
	v, ok := e.payload[name]
	return v, ok
}

// String returns the field as a string, or "" when absent or not a string.
func (e *Envelope) String(name string) string {
	s, _ := e.payload[name].(string)
	return s
}

// Bool returns the field as a bool, or false when absent or not a bool.
func (e *Envelope) Bool(name string) bool {
	b, _ := e.payload[name].(bool)
	return b
}

// Status returns the outcome of a response variant. Variants without a
// status field, and envelopes whose status is not a string, report NOT_SET.
func (e *Envelope) Status() catalog.Status {
	var s catalog.Status
	switch v := e.payload[catalog.FieldStatus].(type) {
	case catalog.Status:
		s = v
	case string:
		s = catalog.Status(v)
	}
	if s == "" {
		return catalog.StatusNotSet
	}
	return s
}

// Builder constructs envelopes against one catalog and one correlation id
// sequence. A connection owns exactly one Builder.
type Builder struct {
	catalog *catalog.Catalog
	seq     *ids.Sequence
}

// NewBuilder returns a Builder. A nil catalog selects the built-in one and a
// nil sequence starts a fresh counter.
func NewBuilder(c *catalog.Catalog, seq *ids.Sequence) *Builder {
	if c == nil {
		c = catalog.Default()
	}
	if seq == nil {
		seq = ids.NewSequence()
	}
	return &Builder{catalog: c, seq: seq}
}

// Catalog returns the catalog used for tag resolution.
func (b *Builder) Catalog() *catalog.Catalog { return b.catalog }

// New constructs an envelope of variant tag. Only fields declared by the
// variant are kept and nil values count as absent. It fails with
// UnknownVariantError for unregistered tags and MissingAttributeError when a
// required field is absent; no envelope is returned on failure.
func (b *Builder) New(tag string, fields Fields, opts ...Option) (*Envelope, error) {
	desc, err := b.catalog.Resolve(tag)
	if err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	payload := make(Fields, len(desc.Fields))
	for _, name := range desc.Fields {
		if v, ok := fields[name]; ok && !isAbsent(v) {
			payload[name] = v
		}
	}
	if err := validate(desc, payload); err != nil {
		return nil, err
	}

	id := o.id
	if id == "" {
		id = b.seq.Next(desc.Tag)
	}

	return &Envelope{
		desc:      desc,
		id:        id,
		sender:    o.sender,
		recipient: o.recipient,
		payload:   payload,
	}, nil
}

// MustNew is New for statically known payloads; it panics on error.
func (b *Builder) MustNew(tag string, fields Fields, opts ...Option) *Envelope {
	env, err := b.New(tag, fields, opts...)
	if err != nil {
		panic(err)
	}
	return env
}
