package cas

import (
	"encoding/hex"
	"testing"

	"github.com/zeebo/blake3"
)

func TestBlake3Hash(t *testing.T) {
	data := []byte("| A | D | E |\n")
	h := blake3.Sum256(data)
	want := hex.EncodeToString(h[:])

	if got := Blake3Hash(data); got != want {
		t.Errorf("Blake3Hash() = %s, want %s", got, want)
	}
	if got := Blake3String(string(data)); got != want {
		t.Errorf("Blake3String() = %s, want %s", got, want)
	}
	if !IsDigest(want) {
		t.Errorf("IsDigest(%s) = false", want)
	}
}

func TestKeySeparatesParts(t *testing.T) {
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("Key should length-prefix its parts")
	}
	if Key("x", "D", "E") != Key("x", "D", "E") {
		t.Error("Key should be deterministic")
	}
	if !IsDigest(Key()) {
		t.Error("Key() should be a 64-char hex digest")
	}
}

func TestIsDigest(t *testing.T) {
	valid := Blake3String("x")
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"abc", false},
		{valid, true},
		{"ZZ" + valid[2:], false},
	}
	for _, tt := range tests {
		if got := IsDigest(tt.in); got != tt.want {
			t.Errorf("IsDigest(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
