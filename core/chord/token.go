package chord

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/ChordShift/core/errors"
)

// Token is a chord split into its root pitch and quality suffix.
type Token struct {
	Root   string // e.g. "C#"
	Suffix string // e.g. "m7", empty for a bare major chord
}

// String reassembles the token.
func (t Token) String() string {
	return t.Root + t.Suffix
}

// tokenGrammar is the participle grammar for a single chord token.
// Examples: "A", "Bb", "C#m7", "Bbb", "E7+"
//
//nolint:govet // participle grammar tags are not standard struct tags
type tokenGrammar struct {
	Root   string `@Root`
	Suffix string `@Suffix?`
}

// tokenLexer tries Root before Suffix, so a leading letter and its first
// accidental always form the root.
var tokenLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Root", Pattern: RootPattern},
	{Name: "Suffix", Pattern: `[#bm2467+]+`},
})

var tokenParser = participle.MustBuild[tokenGrammar](
	participle.Lexer(tokenLexer),
)

// ParseToken splits a chord token into root and suffix.
func ParseToken(s string) (Token, error) {
	if s == "" {
		return Token{}, errors.NewParse("chord", "", "empty token")
	}
	parsed, err := tokenParser.ParseString("", s)
	if err != nil {
		return Token{}, &errors.ParseError{
			Format:  "chord",
			Message: fmt.Sprintf("invalid chord token %q", s),
			Err:     err,
		}
	}
	return Token{Root: parsed.Root, Suffix: parsed.Suffix}, nil
}

// Parse returns the root and suffix of the span's token.
func (s Span) Parse() (Token, error) {
	return ParseToken(s.Text)
}
