package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// CallKey builds the canonical cache key for a memoized call: the function
// identity in the clear, followed by a sha256 digest over the function name
// and every argument. Arguments are fed through the hash with a zero-byte
// separator so adjacent values cannot collide by concatenation. Keys are
// stable across runs.
func CallKey(fn string, args ...string) string {
	hasher := sha256.New()
	hasher.Write([]byte(fn))
	for _, arg := range args {
		hasher.Write([]byte{0})
		hasher.Write([]byte(arg))
	}
	return fn + ":" + hex.EncodeToString(hasher.Sum(nil))
}
