package event

import (
	"slices"

	"github.com/drblury/kioskwire/internal/runtime/catalog"
	"github.com/drblury/kioskwire/internal/runtime/jsoncodec"
)

// State is one secondary outcome reported by a response variant, for example
// {"Checkout::Renew": true} when a checkout touched an item already on loan.
type State struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// States returns the per-item outcomes of a response variant in a stable
// order. Object payloads are ordered by key; list payloads keep their order
// and bare strings become flags set to true.
func (e *Envelope) States() []State {
	raw, ok := e.payload[catalog.FieldStates]
	if !ok {
		return nil
	}
	return statesOf(raw)
}

func statesOf(raw any) []State {
	switch v := raw.(type) {
	case []State:
		return slices.Clone(v)
	case map[string]any:
		return sortedStates(v)
	case map[string]bool:
		m := make(map[string]any, len(v))
		for k, b := range v {
			m[k] = b
		}
		return sortedStates(m)
	case []string:
		out := make([]State, 0, len(v))
		for _, k := range v {
			out = append(out, State{Key: k, Value: true})
		}
		return out
	case []any:
		out := make([]State, 0, len(v))
		for _, item := range v {
			switch it := item.(type) {
			case string:
				out = append(out, State{Key: it, Value: true})
			case map[string]any:
				if st, ok := encodedState(it); ok {
					out = append(out, st)
					continue
				}
				out = append(out, sortedStates(it)...)
			}
		}
		return out
	default:
		return nil
	}
}

// HasState reports whether key is among the envelope's states.
func (e *Envelope) HasState(key string) bool {
	for _, s := range e.States() {
		if s.Key == key {
			return true
		}
	}
	return false
}

func sortedStates(m map[string]any) []State {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]State, 0, len(keys))
	for _, k := range keys {
		out = append(out, State{Key: k, Value: m[k]})
	}
	return out
}

// encodedState recognises a State that already went through the codec as
// {"key": ..., "value": ...}.
func encodedState(m map[string]any) (State, bool) {
	if len(m) != 2 {
		return State{}, false
	}
	key, ok := m["key"].(string)
	if !ok {
		return State{}, false
	}
	value, ok := m["value"]
	if !ok {
		return State{}, false
	}
	return State{Key: key, Value: value}, true
}

// StateSet is the typed form of a states field. It accepts every shape
// Envelope.States understands and always encodes as a list of State.
type StateSet []State

// UnmarshalJSON normalises object, flag list and State list encodings.
func (s *StateSet) UnmarshalJSON(data []byte) error {
	var raw any
	if err := jsoncodec.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = statesOf(raw)
	return nil
}

// Has reports whether key is in the set.
func (s StateSet) Has(key string) bool {
	for _, st := range s {
		if st.Key == key {
			return true
		}
	}
	return false
}
