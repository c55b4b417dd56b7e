// Package validation checks user-supplied paths and sniffs the content type
// of input files before they are decoded.
package validation

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/FocuswithJustin/ChordShift/core/errors"
)

const (
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
	// HeaderSize is how many leading bytes DetectFileType needs.
	HeaderSize = 512
)

// Path validation errors.
var (
	ErrEmptyPath        = errors.Wrap(errors.ErrInvalidInput, "path cannot be empty")
	ErrPathTooLong      = errors.Wrap(errors.ErrInvalidInput, "path too long")
	ErrInvalidCharacter = errors.Wrap(errors.ErrInvalidInput, "invalid character in path")
)

// ValidatePath checks for empty paths, length limits, and control characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// FileType is the detected kind of an input file.
type FileType string

const (
	FileTypeText    FileType = "text"
	FileTypeXML     FileType = "xml"
	FileTypeGzip    FileType = "gzip"
	FileTypeXZ      FileType = "xz"
	FileTypeZip     FileType = "zip"
	FileTypeArchive FileType = "archive"
	FileTypeBinary  FileType = "binary"
	FileTypeUnknown FileType = "unknown"
)

// Compressed reports whether t must be decompressed before reading.
func (t FileType) Compressed() bool {
	return t == FileTypeGzip || t == FileTypeXZ
}

var magicBytes = []struct {
	fileType FileType
	magic    []byte
}{
	{FileTypeGzip, []byte{0x1f, 0x8b}},
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{FileTypeZip, []byte{0x50, 0x4b, 0x03, 0x04}},
}

// DetectFileType classifies an input from its first HeaderSize bytes and
// its name. Magic bytes win over the extension, except that a file named
// as one compression format but holding another is rejected. A file named
// .xz or .gz whose header is not recognized is reported by its extension,
// leaving the decompressor to report the corruption. Tarballs are always
// FileTypeArchive, whatever compression wraps them.
func DetectFileType(header []byte, filename string) (FileType, error) {
	detected := detectFileTypeFromMagic(header)
	expected := detectFileTypeFromExtension(filename)

	if expected == FileTypeArchive {
		return FileTypeArchive, nil
	}
	if detected != FileTypeUnknown {
		if expected.Compressed() && detected != expected {
			return FileTypeUnknown, fmt.Errorf("%w: file type mismatch: extension suggests %s but content is %s",
				errors.ErrInvalidInput, expected, detected)
		}
		return detected, nil
	}
	if expected.Compressed() {
		return expected, nil
	}

	if len(header) > 0 && !isLikelyText(header) {
		return FileTypeBinary, nil
	}
	if looksLikeXML(header) || expected == FileTypeXML {
		return FileTypeXML, nil
	}
	return FileTypeText, nil
}

func detectFileTypeFromMagic(buf []byte) FileType {
	for _, sig := range magicBytes {
		if bytes.HasPrefix(buf, sig.magic) {
			return sig.fileType
		}
	}
	return FileTypeUnknown
}

func detectFileTypeFromExtension(filename string) FileType {
	name := strings.ToLower(filename)
	if strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tar.xz") {
		return FileTypeArchive
	}
	switch filepath.Ext(name) {
	case ".tar", ".tgz", ".txz":
		return FileTypeArchive
	case ".xz":
		return FileTypeXZ
	case ".gz":
		return FileTypeGzip
	case ".mxl", ".zip":
		return FileTypeZip
	case ".xml", ".musicxml":
		return FileTypeXML
	case ".txt", ".chords", ".crd", ".pro", ".md":
		return FileTypeText
	default:
		return FileTypeUnknown
	}
}

func looksLikeXML(buf []byte) bool {
	buf = bytes.TrimPrefix(buf, []byte("\xef\xbb\xbf"))
	buf = bytes.TrimLeft(buf, " \t\r\n")
	return bytes.HasPrefix(buf, []byte("<?xml")) || bytes.HasPrefix(buf, []byte("<score-"))
}

// isLikelyText reports whether more than 95% of buf is printable ASCII or
// whitespace. Bytes >= 0x80 are neutral so UTF-8 text passes.
func isLikelyText(buf []byte) bool {
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable := 0
	control := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7e || b == '\t' || b == '\n' || b == '\r' {
			printable++
		} else if b < 0x20 {
			control++
		}
	}
	if printable+control == 0 {
		return true
	}
	return float64(printable)/float64(printable+control) > 0.95
}
