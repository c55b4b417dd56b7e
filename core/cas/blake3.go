// Package cas computes content digests used to identify transposed sheets.
package cas

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// Blake3Hash computes the hex BLAKE3 digest of data.
func Blake3Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Blake3String computes the hex BLAKE3 digest of s.
func Blake3String(s string) string {
	return Blake3Hash([]byte(s))
}

// Key derives a single digest from several parts. Parts are length-prefixed
// so ("ab", "c") and ("a", "bc") never collide.
func Key(parts ...string) string {
	h := blake3.New()
	var n [8]byte
	for _, p := range parts {
		l := uint64(len(p))
		for i := range n {
			n[i] = byte(l >> (8 * i))
		}
		h.Write(n[:])
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// IsDigest reports whether s looks like a hex BLAKE3-256 digest.
func IsDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !('0' <= r && r <= '9') && !('a' <= r && r <= 'f')
	}) < 0
}
