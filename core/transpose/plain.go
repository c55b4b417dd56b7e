package transpose

import (
	"log/slog"
	"strings"

	"github.com/FocuswithJustin/ChordShift/core/chord"
	"github.com/FocuswithJustin/ChordShift/core/pitch"
)

// barSeparator marks the lines plain mode is allowed to touch.
const barSeparator = '|'

// transposePlain finds every root spelling in a bar line and replaces them
// one at a time, each searched for in the text after the previous
// replacement. Roots are not grouped with their suffixes, so a root that
// also occurs earlier in a suffix region can be matched at the wrong place.
func transposePlain(line string, steps int, toKey string, logger *slog.Logger) (string, int, error) {
	if line == "" || line[0] != barSeparator {
		return line, 0, nil
	}

	roots := chord.FindRoots(line)
	var sb strings.Builder
	sb.Grow(len(line))

	rest := line
	count := 0
	for _, root := range roots {
		if rest == "" {
			break
		}
		at := strings.Index(rest, root)
		if at < 0 {
			break
		}
		transposed, err := pitch.Transpose(root, steps, toKey)
		if err != nil {
			return "", 0, err
		}
		logger.Debug("root", "root", root, "new_root", transposed)

		sb.WriteString(rest[:at])
		sb.WriteString(transposed)
		rest = rest[at+len(root):]
		count++
	}
	sb.WriteString(rest)
	return sb.String(), count, nil
}
