package transpose

import (
	"bufio"
	"io"
	"strings"

	"github.com/FocuswithJustin/ChordShift/core/errors"
	"github.com/FocuswithJustin/ChordShift/core/pitch"
)

// Result describes one transposed sheet.
type Result struct {
	Text   string
	Steps  int // signed half-steps, not reduced modulo 12
	Lines  int
	Chords int // chord tokens (or roots, in plain mode) rewritten
}

// File transposes the sheet at path from fromKey to toKey.
// Paths ending in .xz or .gz are decompressed first.
func (t *Transposer) File(path, fromKey, toKey string) (string, error) {
	res, err := t.RunFile(path, fromKey, toKey)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// RunFile is File with run statistics.
func (t *Transposer) RunFile(path, fromKey, toKey string) (*Result, error) {
	steps, err := pitch.Steps(fromKey, toKey)
	if err != nil {
		return nil, err
	}

	rc, err := openSheet(path)
	if err != nil {
		t.logger.Debug("cannot open file", "path", path, "error", err)
		return nil, err
	}
	defer rc.Close()

	res, err := t.run(rc, path, steps, toKey)
	if err != nil {
		return nil, err
	}
	t.logger.Debug("transposed file", "path", path, "from", fromKey, "to", toKey, "steps", steps, "lines", res.Lines, "chords", res.Chords)
	return res, nil
}

// Text transposes a sheet read from r.
func (t *Transposer) Text(r io.Reader, fromKey, toKey string) (string, error) {
	res, err := t.Run(r, fromKey, toKey)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Run transposes a sheet read from r and reports statistics. Keys are
// checked before anything is read. On error no text is returned.
func (t *Transposer) Run(r io.Reader, fromKey, toKey string) (*Result, error) {
	steps, err := pitch.Steps(fromKey, toKey)
	if err != nil {
		return nil, err
	}
	return t.run(r, "", steps, toKey)
}

// Sheet transposes an in-memory sheet.
func (t *Transposer) Sheet(s, fromKey, toKey string) (*Result, error) {
	return t.Run(strings.NewReader(s), fromKey, toKey)
}

// run is the line loop shared by all entry points. source names the input
// in read errors.
func (t *Transposer) run(r io.Reader, source string, steps int, toKey string) (*Result, error) {
	res := &Result{Steps: steps}
	var sb strings.Builder

	br := bufio.NewReader(r)
	for {
		line, readErr := br.ReadString('\n')
		if line != "" {
			out, n, err := t.line(line, steps, toKey)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", res.Lines+1)
			}
			sb.WriteString(out)
			res.Lines++
			res.Chords += n
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, errors.NewFileAccess("read", source, readErr)
		}
	}

	res.Text = sb.String()
	return res, nil
}
