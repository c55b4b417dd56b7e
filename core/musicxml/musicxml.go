// Package musicxml transposes the chord symbols of a MusicXML score.
//
// Only <harmony> elements change: the step and alter of their <root> and
// <bass> are rewritten, spelled for the target key. Notes, key signatures
// and everything else are left as they are.
package musicxml

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/ChordShift/core/errors"
	"github.com/FocuswithJustin/ChordShift/core/pitch"
)

const format = "MusicXML"

var (
	harmonyExpr = xpath.MustCompile("//harmony")

	// xmlquery drops DOCTYPE directives; they are carried over by hand.
	doctypeRegex = regexp.MustCompile(`(?s)<!DOCTYPE[^>]*>`)
)

// Stats counts what Transpose changed.
type Stats struct {
	Harmonies int // <harmony> elements visited
	Pitches   int // root and bass pitches rewritten
}

// TransposeKeys transposes data from fromKey to toKey.
func TransposeKeys(data []byte, fromKey, toKey string) ([]byte, Stats, error) {
	steps, err := pitch.Steps(fromKey, toKey)
	if err != nil {
		return nil, Stats{}, err
	}
	return Transpose(data, steps, toKey)
}

// Transpose moves every harmony root and bass by steps half-steps.
func Transpose(data []byte, steps int, toKey string) ([]byte, Stats, error) {
	if _, err := pitch.Preference(toKey); err != nil {
		return nil, Stats{}, err
	}

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, Stats{}, &errors.ParseError{Format: format, Message: err.Error(), Err: err}
	}

	var stats Stats
	for _, harmony := range xmlquery.QuerySelectorAll(doc, harmonyExpr) {
		stats.Harmonies++
		for _, part := range []string{"root", "bass"} {
			el := harmony.SelectElement(part)
			if el == nil {
				continue
			}
			changed, err := transposePitch(el, part, steps, toKey)
			if err != nil {
				return nil, Stats{}, err
			}
			if changed {
				stats.Pitches++
			}
		}
	}

	out := doc.OutputXML(true)
	if doctype := doctypeRegex.Find(data); doctype != nil {
		out = insertDoctype(out, string(doctype))
	}
	return []byte(out), stats, nil
}

// transposePitch rewrites the <part-step>/<part-alter> children of el.
func transposePitch(el *xmlquery.Node, part string, steps int, toKey string) (bool, error) {
	stepEl := el.SelectElement(part + "-step")
	if stepEl == nil {
		return false, nil
	}
	alterEl := el.SelectElement(part + "-alter")

	step := strings.TrimSpace(stepEl.InnerText())
	idx, err := pitch.IndexOf(step)
	if err != nil {
		return false, errors.NewParse(format, "", fmt.Sprintf("invalid %s-step %q", part, step))
	}

	alter := 0
	if alterEl != nil {
		alter, err = parseAlter(alterEl.InnerText())
		if err != nil {
			return false, errors.NewParse(format, "", fmt.Sprintf("invalid %s-alter: %v", part, err))
		}
	}

	name, err := pitch.Spell(idx+alter+steps, toKey)
	if err != nil {
		return false, err
	}

	newStep, newAlter := name[:1], 0
	if len(name) > 1 {
		switch pitch.Accidental(name[1]) {
		case pitch.Sharp:
			newAlter = 1
		case pitch.Flat:
			newAlter = -1
		}
	}

	setText(stepEl, newStep)
	switch {
	case newAlter == 0 && alterEl != nil:
		xmlquery.RemoveFromTree(alterEl)
	case newAlter != 0 && alterEl != nil:
		setText(alterEl, strconv.Itoa(newAlter))
	case newAlter != 0:
		alterEl = &xmlquery.Node{Type: xmlquery.ElementNode, Data: part + "-alter"}
		setText(alterEl, strconv.Itoa(newAlter))
		xmlquery.AddSibling(stepEl, alterEl)
	}
	return true, nil
}

// parseAlter accepts whole semitone alterations, written as "1" or "1.0".
func parseAlter(s string) (int, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("microtonal alter %s is not supported", s)
	}
	return int(f), nil
}

func setText(n *xmlquery.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		xmlquery.RemoveFromTree(c)
		c = next
	}
	xmlquery.AddChild(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
}

func insertDoctype(out, doctype string) string {
	if strings.HasPrefix(out, "<?xml") {
		if end := strings.Index(out, "?>"); end >= 0 {
			return out[:end+2] + "\n" + doctype + out[end+2:]
		}
	}
	return doctype + "\n" + out
}
