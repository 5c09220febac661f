package runtime

import (
	"context"
	"slices"
	"sync"

	errspkg "github.com/drblury/kioskwire/internal/runtime/errors"
	"github.com/drblury/kioskwire/internal/runtime/event"
)

// Listener handles one dispatched envelope. Returning an error aborts the
// dispatch; the remaining listeners for the tag do not run.
type Listener func(ctx context.Context, env *event.Envelope) error

// Handle identifies one registration and is used to unregister it.
type Handle struct {
	tag string
	id  uint64
}

// Tag returns the tag the listener was registered for.
func (h Handle) Tag() string { return h.tag }

type registration struct {
	id       uint64
	listener Listener
}

// Registry keeps the listeners of one connection, keyed by wire tag and kept
// in registration order.
type Registry struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[string][]registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{listeners: make(map[string][]registration)}
}

// Register appends l to the listeners of tag.
func (r *Registry) Register(tag string, l Listener) (Handle, error) {
	if tag == "" {
		return Handle{}, errspkg.ErrTagRequired
	}
	if l == nil {
		return Handle{}, errspkg.ErrListenerRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.listeners[tag] = append(r.listeners[tag], registration{id: r.nextID, listener: l})
	return Handle{tag: tag, id: r.nextID}, nil
}

// Unregister removes the registration behind h. It reports whether anything
// was removed.
func (r *Registry) Unregister(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := r.listeners[h.tag]
	idx := slices.IndexFunc(regs, func(reg registration) bool { return reg.id == h.id })
	if idx < 0 {
		return false
	}
	regs = slices.Delete(slices.Clone(regs), idx, idx+1)
	if len(regs) == 0 {
		delete(r.listeners, h.tag)
	} else {
		r.listeners[h.tag] = regs
	}
	return true
}

// Listeners returns a snapshot of the listeners for tag in registration
// order. Registrations made while the snapshot is in use are not visible.
func (r *Registry) Listeners(tag string) []Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := r.listeners[tag]
	if len(regs) == 0 {
		return nil
	}
	out := make([]Listener, len(regs))
	for i, reg := range regs {
		out[i] = reg.listener
	}
	return out
}

// Count returns how many listeners are registered for tag.
func (r *Registry) Count(tag string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners[tag])
}

// Tags returns the number of listeners per registered tag.
func (r *Registry) Tags() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int, len(r.listeners))
	for tag, regs := range r.listeners {
		out[tag] = len(regs)
	}
	return out
}
