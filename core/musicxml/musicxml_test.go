package musicxml

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"

	cerrors "github.com/FocuswithJustin/ChordShift/core/errors"
)

const score = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 4.0 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">
<score-partwise version="4.0">
  <part id="P1">
    <measure number="1">
      <harmony>
        <root><root-step>C</root-step></root>
        <kind>major</kind>
        <bass><bass-step>E</bass-step></bass>
      </harmony>
      <harmony>
        <root><root-step>B</root-step><root-alter>-1</root-alter></root>
        <kind>minor-seventh</kind>
      </harmony>
      <harmony>
        <root><root-step>F</root-step><root-alter>1</root-alter></root>
        <kind>dominant</kind>
      </harmony>
      <note><pitch><step>C</step><octave>4</octave></pitch></note>
    </measure>
  </part>
</score-partwise>
`

type pitchOf struct {
	step  string
	alter string
}

func harmonies(t *testing.T, data []byte, part string) []pitchOf {
	t.Helper()
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not XML: %v", err)
	}
	var out []pitchOf
	for _, h := range xmlquery.Find(doc, "//harmony") {
		el := h.SelectElement(part)
		if el == nil {
			out = append(out, pitchOf{})
			continue
		}
		p := pitchOf{step: el.SelectElement(part + "-step").InnerText()}
		if a := el.SelectElement(part + "-alter"); a != nil {
			p.alter = a.InnerText()
		}
		out = append(out, p)
	}
	return out
}

func TestTransposeKeys(t *testing.T) {
	out, stats, err := TransposeKeys([]byte(score), "C", "D")
	if err != nil {
		t.Fatalf("TransposeKeys() error: %v", err)
	}
	if stats.Harmonies != 3 || stats.Pitches != 4 {
		t.Errorf("stats = %+v, want 3 harmonies and 4 pitches", stats)
	}

	roots := harmonies(t, out, "root")
	want := []pitchOf{{"D", ""}, {"C", ""}, {"G", "1"}}
	for i := range want {
		if roots[i] != want[i] {
			t.Errorf("root %d = %+v, want %+v", i, roots[i], want[i])
		}
	}

	bass := harmonies(t, out, "bass")
	if bass[0] != (pitchOf{"F", "1"}) {
		t.Errorf("bass = %+v, want F# (F, 1)", bass[0])
	}

	s := string(out)
	if !strings.Contains(s, "<!DOCTYPE score-partwise") {
		t.Error("DOCTYPE was dropped")
	}
	if !strings.Contains(s, "<kind>minor-seventh</kind>") {
		t.Error("chord kind changed")
	}
	if !strings.Contains(s, "<step>C</step>") {
		t.Error("note pitch changed")
	}
}

func TestTransposeFlatTarget(t *testing.T) {
	out, _, err := Transpose([]byte(score), 1, "F")
	if err != nil {
		t.Fatalf("Transpose() error: %v", err)
	}
	roots := harmonies(t, out, "root")
	want := []pitchOf{{"D", "-1"}, {"B", ""}, {"G", ""}}
	for i := range want {
		if roots[i] != want[i] {
			t.Errorf("root %d = %+v, want %+v", i, roots[i], want[i])
		}
	}
}

func TestTransposeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		key  string
		is   error
	}{
		{"unknown target", score, "H", cerrors.ErrUnknownKey},
		{"not xml", "<score-partwise><harmony></score-partwise>", "C", cerrors.ErrInvalidInput},
		{"bad step", `<harmony><root><root-step>X</root-step></root></harmony>`, "C", cerrors.ErrInvalidInput},
		{"microtonal alter", `<harmony><root><root-step>C</root-step><root-alter>0.5</root-alter></root></harmony>`, "C", cerrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := Transpose([]byte(tt.data), 2, tt.key)
			if out != nil {
				t.Errorf("output returned on error: %q", out)
			}
			if !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestParseAlter(t *testing.T) {
	for in, want := range map[string]int{"1": 1, "-1": -1, " 2 ": 2, "1.0": 1, "0": 0} {
		got, err := parseAlter(in)
		if err != nil || got != want {
			t.Errorf("parseAlter(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	if _, err := parseAlter("sharp"); err == nil {
		t.Error("parseAlter(sharp) should fail")
	}
}
