// Package pitch models the twelve pitch classes, their sharp/flat
// spellings, and the accidental each key prefers when a pitch class has two
// names.
package pitch

import (
	"github.com/FocuswithJustin/ChordShift/core/errors"
)

// Accidental is the symbol a key prefers for enharmonic spelling.
type Accidental byte

const (
	// Sharp selects the first spelling of a dual-spelling class (e.g. "A#").
	Sharp Accidental = '#'
	// Flat selects the second spelling of a dual-spelling class (e.g. "Bb").
	Flat Accidental = 'b'
)

func (a Accidental) String() string {
	return string(a)
}

// Size is the number of pitch classes in the chromatic cycle.
const Size = 12

// classes holds the spellings of each pitch class in chromatic order,
// starting from A. Dual-spelling classes list the sharp name first.
var classes = [Size][]string{
	{"A"},
	{"A#", "Bb"},
	{"B"},
	{"C"},
	{"C#", "Db"},
	{"D"},
	{"D#", "Eb"},
	{"E"},
	{"F"},
	{"F#", "Gb"},
	{"G"},
	{"G#", "Ab"},
}

// preferences maps every spellable key name to its accidental convention.
var preferences = map[string]Accidental{
	"A":  Sharp,
	"A#": Flat,
	"Bb": Flat,
	"B":  Sharp,
	"C":  Flat,
	"C#": Flat,
	"Db": Flat,
	"D":  Sharp,
	"D#": Flat,
	"Eb": Flat,
	"E":  Sharp,
	"F":  Flat,
	"F#": Sharp,
	"Gb": Sharp,
	"G":  Sharp,
	"G#": Flat,
	"Ab": Flat,
}

// index is the reverse lookup from spelling to chromatic index.
var index = func() map[string]int {
	m := make(map[string]int, len(preferences))
	for i, names := range classes {
		for _, name := range names {
			m[name] = i
		}
	}
	return m
}()

// IndexOf returns the chromatic index (0-11) of the class spelled name.
func IndexOf(name string) (int, error) {
	i, ok := index[name]
	if !ok {
		return 0, errors.NewUnknownKey(name)
	}
	return i, nil
}

// Normalize reduces any integer to a chromatic index in 0-11.
func Normalize(i int) int {
	return ((i % Size) + Size) % Size
}

// Preference returns the accidental used when spelling pitches for key.
func Preference(key string) (Accidental, error) {
	acc, ok := preferences[key]
	if !ok {
		return 0, errors.NewUnknownKey(key)
	}
	return acc, nil
}

// Spell returns the spelling of the class at i (mod 12) as written in key.
// Spelling depends on the destination key only.
func Spell(i int, key string) (string, error) {
	acc, err := Preference(key)
	if err != nil {
		return "", err
	}
	names := classes[Normalize(i)]
	if len(names) > 1 && acc == Flat {
		return names[1], nil
	}
	return names[0], nil
}

// Spellings returns the names of the class at i (mod 12).
func Spellings(i int) []string {
	names := classes[Normalize(i)]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Keys lists every accepted key name in chromatic order.
func Keys() []string {
	keys := make([]string, 0, len(preferences))
	for _, names := range classes {
		keys = append(keys, names...)
	}
	return keys
}
