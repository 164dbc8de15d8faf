package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestHonorCipherOrderNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input HonorCipherOrder
		want  bool
	}{
		{"bool true", HonorBool(true), true},
		{"bool false", HonorBool(false), false},
		{"on", HonorString("on"), true},
		{"off", HonorString("off"), false},
		{"anything else", HonorString("anything-else"), true},
		{"empty string", HonorString(""), true},
		{"case sensitive On", HonorString("On"), true},
		{"case sensitive Off", HonorString("Off"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.Normalize(); got != tt.want {
				t.Errorf("Normalize(%s) = %t, want %t", tt.input, got, tt.want)
			}
		})
	}
}

func TestHonorCipherOrderYAML(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want bool
	}{
		{"bare true", "true", true},
		{"bare false", "false", false},
		{"quoted on", `"on"`, true},
		{"quoted off", `"off"`, false},
		{"other string", `"maybe"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h HonorCipherOrder
			if err := yaml.Unmarshal([]byte(tt.yaml), &h); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if got := h.Normalize(); got != tt.want {
				t.Errorf("normalized %s = %t, want %t", tt.yaml, got, tt.want)
			}
		})
	}

	t.Run("shape survives marshal", func(t *testing.T) {
		out, err := yaml.Marshal(HonorString("on"))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(out) != "\"on\"\n" && string(out) != "on\n" {
			t.Errorf("unexpected marshal output: %q", string(out))
		}
	})

	t.Run("non-scalar fails", func(t *testing.T) {
		var h HonorCipherOrder
		if err := yaml.Unmarshal([]byte("[1, 2]"), &h); err == nil {
			t.Fatal("expected error for non-scalar input")
		}
	})
}
