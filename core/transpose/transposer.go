// Package transpose rewrites chord sheets from one key to another.
//
// Only the root pitch of each chord changes. Quality suffixes, bass-note
// separators, lyrics and markup are copied through unchanged.
package transpose

import (
	"log/slog"
	"strings"

	"github.com/FocuswithJustin/ChordShift/core/chord"
	"github.com/FocuswithJustin/ChordShift/core/errors"
	"github.com/FocuswithJustin/ChordShift/core/pitch"
	"github.com/FocuswithJustin/ChordShift/internal/logging"
)

// Mode selects how chords are located in a line.
type Mode int

const (
	// ModeGeneral transposes bounded chord tokens anywhere in any line.
	ModeGeneral Mode = iota
	// ModePlain transposes every root spelling, but only on lines that
	// start with a bar separator. Kept for compatibility with older charts.
	ModePlain
)

func (m Mode) String() string {
	switch m {
	case ModeGeneral:
		return "general"
	case ModePlain:
		return "plain"
	default:
		return "unknown"
	}
}

// ParseMode converts "general" or "plain" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "general":
		return ModeGeneral, nil
	case "plain":
		return ModePlain, nil
	default:
		return ModeGeneral, errors.NewMalformedOption("mode", "expected general or plain, got "+s)
	}
}

// Config configures a Transposer.
type Config struct {
	Mode   Mode
	Logger *slog.Logger // receives the debug trace; nil discards it
}

// Transposer applies one Mode to lines and whole sheets.
type Transposer struct {
	mode   Mode
	logger *slog.Logger
}

// New creates a Transposer.
func New(cfg Config) *Transposer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Transposer{mode: cfg.Mode, logger: logger}
}

// Mode returns the configured mode.
func (t *Transposer) Mode() Mode {
	return t.mode
}

// Line transposes a single line by steps half-steps, spelling for toKey.
func (t *Transposer) Line(line string, steps int, toKey string) (string, error) {
	out, _, err := t.line(line, steps, toKey)
	return out, err
}

func (t *Transposer) line(line string, steps int, toKey string) (string, int, error) {
	t.logger.Debug("line", "text", line, "mode", t.mode.String())
	if t.mode == ModePlain {
		return transposePlain(line, steps, toKey, t.logger)
	}
	return transposeGeneral(line, steps, toKey, t.logger)
}

// TransposeLine transposes every bounded chord token in line.
func TransposeLine(line string, steps int, toKey string) (string, error) {
	out, _, err := transposeGeneral(line, steps, toKey, logging.Discard())
	return out, err
}

// TransposeLinePlain transposes a bar-delimited line in legacy plain mode.
func TransposeLinePlain(line string, steps int, toKey string) (string, error) {
	out, _, err := transposePlain(line, steps, toKey, logging.Discard())
	return out, err
}

func transposeGeneral(line string, steps int, toKey string, logger *slog.Logger) (string, int, error) {
	spans := chord.FindSpans(line)
	if len(spans) == 0 {
		return line, 0, nil
	}

	var sb strings.Builder
	sb.Grow(len(line) + len(spans))
	last := 0
	for _, span := range spans {
		tok, err := span.Parse()
		if err != nil {
			return "", 0, err
		}
		root, err := pitch.Transpose(tok.Root, steps, toKey)
		if err != nil {
			return "", 0, err
		}
		logger.Debug("chord", "pre", span.Pre, "token", span.Text, "post", span.Post, "root", tok.Root, "new_root", root)

		sb.WriteString(line[last:span.Start])
		sb.WriteString(root)
		sb.WriteString(tok.Suffix)
		last = span.End
	}
	sb.WriteString(line[last:])
	return sb.String(), len(spans), nil
}
