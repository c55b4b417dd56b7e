package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestUnknownKeyError(t *testing.T) {
	err := NewUnknownKey("H")
	if got := err.Error(); got != "invalid key: H" {
		t.Errorf("Error() = %q, want %q", got, "invalid key: H")
	}
	if !errors.Is(err, ErrUnknownKey) {
		t.Error("expected errors.Is(err, ErrUnknownKey)")
	}

	wrapped := Wrap(err, "transpose line")
	var uk *UnknownKeyError
	if !As(wrapped, &uk) {
		t.Fatal("expected As to find UnknownKeyError through wrapping")
	}
	if uk.Key != "H" {
		t.Errorf("Key = %q, want %q", uk.Key, "H")
	}
}

func TestFileAccessError(t *testing.T) {
	tests := []struct {
		name    string
		err     *FileAccessError
		wantMsg string
	}{
		{
			name:    "with underlying error",
			err:     NewFileAccess("open", "song.txt", fs.ErrNotExist),
			wantMsg: "cannot open file song.txt: file does not exist",
		},
		{
			name:    "without underlying error",
			err:     NewFileAccess("read", "song.txt", nil),
			wantMsg: "cannot read file song.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrFileAccess) {
				t.Error("expected errors.Is(err, ErrFileAccess)")
			}
		})
	}

	t.Run("underlying error reachable", func(t *testing.T) {
		err := NewFileAccess("open", "x", fs.ErrPermission)
		if !errors.Is(err, fs.ErrPermission) {
			t.Error("expected errors.Is(err, fs.ErrPermission)")
		}
	})
}

func TestMalformedOptionError(t *testing.T) {
	tests := []struct {
		name    string
		err     *MalformedOptionError
		wantMsg string
	}{
		{"with option", NewMalformedOption("--mode", "expected general or plain"), "malformed option --mode: expected general or plain"},
		{"without option", NewMalformedOption("", "missing file path"), "malformed option: missing file path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrInvalidInput) {
				t.Error("expected errors.Is(err, ErrInvalidInput)")
			}
		})
	}
}

func TestParseError(t *testing.T) {
	err := NewParse("MusicXML", "score.xml", "bad alter")
	if got := err.Error(); got != "failed to parse MusicXML at score.xml: bad alter" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected default unwrap to ErrInvalidInput")
	}

	underlying := fmt.Errorf("eof")
	err = &ParseError{Format: "chord", Message: "x", Err: underlying}
	if got := err.Error(); got != "failed to parse chord: x" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, underlying) || !errors.Is(err, ErrInvalidInput) {
		t.Error("expected both the underlying error and ErrInvalidInput to be reachable")
	}
}

func TestNotFoundError(t *testing.T) {
	if got := NewNotFound("history entry", "abc").Error(); got != "history entry not found: abc" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&NotFoundError{Resource: "history entry"}).Error(); got != "history entry not found" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(NewNotFound("x", "y"), ErrNotFound) {
		t.Error("expected Is(err, ErrNotFound)")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}
	err := Wrapf(ErrNotFound, "line %d", 3)
	if got := err.Error(); got != "line 3: not found" {
		t.Errorf("Wrapf() = %q", got)
	}
}
