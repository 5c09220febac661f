// Package catalog holds the closed set of message variants spoken between a
// kiosk and its server: the wire tag of every variant, the payload fields it
// carries and where it is delivered when the caller names no recipient.
package catalog

import (
	"fmt"
	"slices"

	errspkg "github.com/drblury/kioskwire/internal/runtime/errors"
)

// Route names one side of the connection.
type Route string

const (
	RouteUnset  Route = ""
	RouteClient Route = "client"
	RouteServer Route = "server"
)

// Valid reports whether r is one of the known routes, including unset.
func (r Route) Valid() bool {
	switch r {
	case RouteUnset, RouteClient, RouteServer:
		return true
	default:
		return false
	}
}

// Status is the overall outcome carried by response variants.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
	StatusPending Status = "PENDING"
	StatusNotSet  Status = "NOT_SET"
)

// Descriptor describes one variant.
type Descriptor struct {
	Tag string
	// Fields is the ordered list of payload fields put on the wire.
	Fields []string
	// AnyOf lists alternate fields of which at least one must carry a value.
	// Fields named here are not individually required.
	AnyOf        []string
	DefaultRoute Route
}

// Required reports whether field must be present on every envelope of this
// variant.
func (d Descriptor) Required(field string) bool {
	return slices.Contains(d.Fields, field) && !slices.Contains(d.AnyOf, field)
}

// Declares reports whether field belongs to the variant's payload.
func (d Descriptor) Declares(field string) bool {
	return slices.Contains(d.Fields, field)
}

// HasStatus reports whether the variant is response shaped.
func (d Descriptor) HasStatus() bool {
	return d.Declares(FieldStatus)
}

// Catalog resolves wire tags to descriptors.
type Catalog struct {
	byTag map[string]Descriptor
	tags  []string
}

// New builds a catalog from descs. Tags must be unique and non-empty.
func New(descs ...Descriptor) (*Catalog, error) {
	c := &Catalog{byTag: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		if d.Tag == "" {
			return nil, errspkg.ErrTagRequired
		}
		if _, exists := c.byTag[d.Tag]; exists {
			return nil, fmt.Errorf("%w: %s", errspkg.ErrDuplicateVariant, d.Tag)
		}
		if !d.DefaultRoute.Valid() {
			return nil, fmt.Errorf("kioskwire: variant %s has invalid default route %q", d.Tag, d.DefaultRoute)
		}
		d.Fields = slices.Clone(d.Fields)
		d.AnyOf = slices.Clone(d.AnyOf)
		c.byTag[d.Tag] = d
		c.tags = append(c.tags, d.Tag)
	}
	slices.Sort(c.tags)
	return c, nil
}

// Resolve returns the descriptor registered for tag.
func (c *Catalog) Resolve(tag string) (Descriptor, error) {
	d, ok := c.byTag[tag]
	if !ok {
		return Descriptor{}, &errspkg.UnknownVariantError{Tag: tag}
	}
	return d, nil
}

// Has reports whether tag is part of the catalog.
func (c *Catalog) Has(tag string) bool {
	_, ok := c.byTag[tag]
	return ok
}

// Tags returns every registered tag in lexical order.
func (c *Catalog) Tags() []string {
	return slices.Clone(c.tags)
}

// Len returns the number of variants.
func (c *Catalog) Len() int {
	return len(c.tags)
}

var defaultCatalog = mustNew(variants...)

// Default returns the built-in kiosk catalog.
func Default() *Catalog {
	return defaultCatalog
}

func mustNew(descs ...Descriptor) *Catalog {
	c, err := New(descs...)
	if err != nil {
		panic(err)
	}
	return c
}
