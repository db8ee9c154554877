package util

import (
	"strings"
	"testing"
)

func TestCallKeyDeterministic(t *testing.T) {
	a := CallKey("condense.summarize", "gpt-4", "some text")
	b := CallKey("condense.summarize", "gpt-4", "some text")
	if a != b {
		t.Errorf("Identical arguments produced different keys: %q vs %q", a, b)
	}
}

func TestCallKeyFunctionPrefix(t *testing.T) {
	key := CallKey("condense.summarize", "arg")
	if !strings.HasPrefix(key, "condense.summarize:") {
		t.Errorf("Key missing function prefix: %q", key)
	}
}

func TestCallKeyDistinguishesArguments(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"different functions", CallKey("fn1", "x"), CallKey("fn2", "x")},
		{"different arguments", CallKey("fn", "x"), CallKey("fn", "y")},
		{"argument order", CallKey("fn", "x", "y"), CallKey("fn", "y", "x")},
		{"argument boundaries", CallKey("fn", "ab", "c"), CallKey("fn", "a", "bc")},
		{"arity", CallKey("fn", "x"), CallKey("fn", "x", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a == tt.b {
				t.Errorf("Keys should differ: %q", tt.a)
			}
		})
	}
}
