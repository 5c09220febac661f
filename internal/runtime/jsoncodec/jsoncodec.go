// Package jsoncodec is the single JSON entry point for wire frames.
package jsoncodec

import (
	"github.com/bytedance/sonic"
)

// ConfigStd keeps encoding/json compatible output (sorted map keys, HTML
// escaping) so frames are byte-for-byte predictable across peers.
var defaultConfig = sonic.ConfigStd

func Marshal(v any) ([]byte, error) {
	return defaultConfig.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return defaultConfig.Unmarshal(data, v)
}

// UnmarshalString decodes a text frame without copying it into a byte slice.
func UnmarshalString(data string, v any) error {
	return defaultConfig.UnmarshalFromString(data, v)
}

// Valid reports whether data is a syntactically valid JSON document.
func Valid(data []byte) bool {
	return defaultConfig.Valid(data)
}
