package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// HonorCipherOrder is the SSLHonorCipherOrder parameter, which historically
// accepts either a strict boolean or the strings "on"/"off". The two shapes
// are kept apart until Normalize so the original input round-trips through
// the parameter file unchanged.
type HonorCipherOrder struct {
	isBool bool
	b      bool
	s      string
}

// HonorBool creates a boolean-shaped value.
func HonorBool(b bool) HonorCipherOrder {
	return HonorCipherOrder{isBool: true, b: b}
}

// HonorString creates a string-shaped value.
func HonorString(s string) HonorCipherOrder {
	return HonorCipherOrder{s: s}
}

// Normalize resolves the value to a strict boolean: booleans pass through,
// "on" means true, "off" means false, and any other string falls back to
// true, the secure default.
func (h HonorCipherOrder) Normalize() bool {
	if h.isBool {
		return h.b
	}
	switch h.s {
	case "on":
		return true
	case "off":
		return false
	}
	return true
}

// String returns the original input shape for display.
func (h HonorCipherOrder) String() string {
	if h.isBool {
		return fmt.Sprintf("%t", h.b)
	}
	return h.s
}

// UnmarshalYAML accepts a boolean or a string scalar.
func (h *HonorCipherOrder) UnmarshalYAML(value *yaml.Node) error {
	var b bool
	if err := value.Decode(&b); err == nil {
		*h = HonorBool(b)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("ssl_honorcipherorder must be a boolean or a string: %w", err)
	}
	*h = HonorString(s)
	return nil
}

// MarshalYAML preserves the input shape.
func (h HonorCipherOrder) MarshalYAML() (interface{}, error) {
	if h.isBool {
		return h.b, nil
	}
	return h.s, nil
}
