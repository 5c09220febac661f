package transport

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
)

type entry struct {
	builder Builder
	caps    Capabilities
}

// Registry maps transport names to socket builders and their capabilities.
// Transport packages register themselves from init.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// DefaultRegistry is the registry the kiosk connection builds sockets from.
var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds builder under name with capabilities that only carry the
// name. A later registration under the same name replaces the earlier one.
func (r *Registry) Register(name string, builder Builder) {
	r.RegisterWithCapabilities(name, builder, Capabilities{Name: name})
}

// RegisterWithCapabilities adds builder and caps under name. It panics on an
// empty name or a nil builder, both of which are init-time mistakes.
func (r *Registry) RegisterWithCapabilities(name string, builder Builder, caps Capabilities) {
	if name == "" {
		panic("kioskwire: transport name is required")
	}
	if builder == nil {
		panic("kioskwire: transport " + name + " registered without builder")
	}
	if caps.Name == "" {
		caps.Name = name
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = entry{builder: builder, caps: caps}
}

// GetCapabilities returns the capabilities registered for name, or a value
// carrying only the name when the transport is unknown.
func (r *Registry) GetCapabilities(name string) Capabilities {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[name]; ok {
		return e.caps
	}
	return Capabilities{Name: name}
}

// Build creates the socket for cfg's transport. The socket is not opened.
func (r *Registry) Build(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Socket, error) {
	if cfg == nil {
		return nil, errors.New("kioskwire: transport config is required")
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	name := cfg.GetTransport()

	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("kioskwire: unknown transport %q (registered: %v)", name, r.Names())
	}

	socket, err := e.builder(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("kioskwire: build %s socket: %w", name, err)
	}
	if socket == nil {
		return nil, fmt.Errorf("kioskwire: transport %s returned no socket", name)
	}
	return socket, nil
}

// Names returns the registered transport names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Register adds builder to DefaultRegistry.
func Register(name string, builder Builder) {
	DefaultRegistry.Register(name, builder)
}

// RegisterWithCapabilities adds builder and caps to DefaultRegistry.
func RegisterWithCapabilities(name string, builder Builder, caps Capabilities) {
	DefaultRegistry.RegisterWithCapabilities(name, builder, caps)
}

// Build creates a socket from DefaultRegistry.
func Build(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Socket, error) {
	return DefaultRegistry.Build(ctx, cfg, logger)
}
