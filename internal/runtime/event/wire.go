package event

import (
	"fmt"

	errspkg "github.com/drblury/kioskwire/internal/runtime/errors"
	"github.com/drblury/kioskwire/internal/runtime/jsoncodec"
)

// frame is the text frame exchanged over the socket.
type frame struct {
	Event   string         `json:"event"`
	Message map[string]any `json:"message"`
	EventID string         `json:"event_id"`
}

// Marshal serialises env into a wire frame. The message object holds exactly
// the declared fields present on the envelope.
func Marshal(env *Envelope) ([]byte, error) {
	message := make(map[string]any, len(env.payload))
	for _, name := range env.desc.Fields {
		if v, ok := env.payload[name]; ok {
			message[name] = v
		}
	}
	data, err := jsoncodec.Marshal(frame{
		Event:   env.desc.Tag,
		Message: message,
		EventID: env.id,
	})
	if err != nil {
		return nil, fmt.Errorf("kioskwire: marshal %s: %w", env.desc.Tag, err)
	}
	return data, nil
}

// Parse decodes a wire frame and resolves it against the builder's catalog.
// The inbound event_id is kept; a frame without one gets a fresh id. Keys of
// message that the variant does not declare are dropped.
func (b *Builder) Parse(raw []byte, opts ...Option) (*Envelope, error) {
	var f frame
	if err := jsoncodec.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", errspkg.ErrMalformedFrame, err)
	}
	if f.Event == "" {
		return nil, fmt.Errorf("%w: missing event", errspkg.ErrMalformedFrame)
	}
	if !b.catalog.Has(f.Event) {
		return nil, &errspkg.UnknownVariantError{Tag: f.Event}
	}
	if f.EventID != "" {
		opts = append(opts, WithID(f.EventID))
	}
	return b.New(f.Event, Fields(f.Message), opts...)
}
