package domain

import (
	"strings"
	"testing"
)

// FuzzParseTermKey checks that any input either parses to a key that
// round-trips through String or fails with a validation error.
func FuzzParseTermKey(f *testing.F) {
	for _, seed := range []string{
		"SP24", "FA2024", "su99", " fa25 ", "", "XX24", "SP", "SP-1",
		"SP99999999999", "SP4294967297", "FA1975", "SM1981", "'; DROP TABLE term; --", "\x00\x00\x00\x00",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		key, err := ParseTermKey(s)
		if err != nil {
			if !strings.Contains(err.Error(), "validation error") {
				t.Fatalf("unexpected error type for %q: %v", s, err)
			}
			return
		}
		if !key.IsValid() {
			t.Fatalf("%q parsed to unstorable key %+v", s, key)
		}
		again, err := ParseTermKey(key.String())
		if err != nil {
			t.Fatalf("String() of %q does not parse: %v", s, err)
		}
		if again != key {
			t.Fatalf("round trip of %q: got %v, want %v", s, again, key)
		}
	})
}
