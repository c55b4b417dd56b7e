package transpose

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/ChordShift/core/errors"
	"github.com/FocuswithJustin/ChordShift/internal/validation"
)

// sheetReader closes the decompressor (if any) and the file beneath it.
type sheetReader struct {
	io.Reader
	closers []io.Closer
}

func (s *sheetReader) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openSheet opens path for reading. Compression is detected from the
// file's header, falling back to the .xz or .gz extension.
func openSheet(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewFileAccess("open", path, err)
	}

	br := bufio.NewReaderSize(f, validation.HeaderSize)
	header, err := br.Peek(validation.HeaderSize)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, errors.NewFileAccess("read", path, err)
	}

	kind, err := validation.DetectFileType(header, path)
	if err != nil {
		f.Close()
		return nil, errors.NewFileAccess("decompress", path, err)
	}

	sr := &sheetReader{Reader: br}
	switch kind {
	case validation.FileTypeXZ:
		xzReader, err := xz.NewReader(br)
		if err != nil {
			f.Close()
			return nil, errors.NewFileAccess("decompress", path, err)
		}
		sr.Reader = xzReader
	case validation.FileTypeGzip:
		gzReader, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, errors.NewFileAccess("decompress", path, err)
		}
		sr.Reader = gzReader
		sr.closers = append(sr.closers, gzReader)
	case validation.FileTypeZip, validation.FileTypeArchive, validation.FileTypeBinary:
		f.Close()
		return nil, errors.NewFileAccess("read", path, fmt.Errorf("%w: %s content", errors.ErrUnsupported, kind))
	}
	sr.closers = append(sr.closers, f)
	return sr, nil
}
