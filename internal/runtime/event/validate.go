package event

import (
	"reflect"
	"strings"

	"github.com/drblury/kioskwire/internal/runtime/catalog"
	errspkg "github.com/drblury/kioskwire/internal/runtime/errors"
)

// validate checks payload against desc. Zero values such as 0, false and ""
// are legitimate; only a missing key fails a required field. Alternate
// fields need at least one non-zero value.
func validate(desc catalog.Descriptor, payload Fields) error {
	for _, name := range desc.Fields {
		if !desc.Required(name) {
			continue
		}
		if _, ok := payload[name]; !ok {
			return &errspkg.MissingAttributeError{Tag: desc.Tag, Field: name}
		}
	}

	if len(desc.AnyOf) == 0 {
		return nil
	}
	for _, name := range desc.AnyOf {
		if !isZero(payload[name]) {
			return nil
		}
	}
	return &errspkg.MissingAttributeError{Tag: desc.Tag, Field: strings.Join(desc.AnyOf, "' or '")}
}

// isAbsent reports whether v stands for "no value": nil, or a nil pointer,
// map, slice, func, chan or interface.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

func isZero(v any) bool {
	if isAbsent(v) {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
