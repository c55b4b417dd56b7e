// Package chord locates chord tokens in free-form text.
//
// Scanning happens in two stages. FindSpans finds chord-shaped substrings
// bounded by non-word bytes, without consuming the boundaries, so adjacent
// chords that share one separator (as in "C#m7/F#") are all found.
// ParseToken then splits an isolated token into its root pitch and its
// quality suffix.
package chord

import (
	"regexp"
)

const (
	// RootPattern matches a single pitch spelling: a letter and at most one
	// accidental.
	RootPattern = `[A-G][#b]?`

	// ChordPattern matches a root letter, any accidentals, and any quality
	// characters. Boundaries are checked separately.
	ChordPattern = `[A-G][#b]*[m2467+]*`
)

var (
	rootRegex  = regexp.MustCompile(RootPattern)
	chordRegex = regexp.MustCompile(ChordPattern)
)

// Span is a chord token found in a line.
type Span struct {
	Start int    // byte offset of the first token byte
	End   int    // byte offset just past the token
	Text  string // the token, e.g. "C#m7"
	Pre   string // boundary byte before the token, "" at line start
	Post  string // boundary byte after the token, "" at line end
}

// FindSpans returns every bounded chord token in line, left to right.
//
// A candidate is kept when the byte before it is a non-word byte or the
// line start, and the byte after it is a non-word byte or the line end.
// When the longest candidate runs into a word byte, shorter prefixes are
// tried so that "C#x" still yields "C".
func FindSpans(line string) []Span {
	var spans []Span
	for _, loc := range chordRegex.FindAllStringIndex(line, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && isWordByte(line[start-1]) {
			continue
		}
		for ; end > start; end-- {
			if end == len(line) || !isWordByte(line[end]) {
				break
			}
		}
		if end == start {
			continue
		}
		spans = append(spans, Span{
			Start: start,
			End:   end,
			Text:  line[start:end],
			Pre:   boundary(line, start-1),
			Post:  boundary(line, end),
		})
	}
	return spans
}

// FindRoots returns every root-pattern match in line, in order. Bass notes
// and chord roots are returned alike; no suffix grouping is done.
func FindRoots(line string) []string {
	return rootRegex.FindAllString(line, -1)
}

func boundary(line string, i int) string {
	if i < 0 || i >= len(line) {
		return ""
	}
	return line[i : i+1]
}

// isWordByte reports whether b is an ASCII word character [0-9A-Za-z_].
func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}
