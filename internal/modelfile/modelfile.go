// Package modelfile opens model and corpus files, decompressing gzip
// and xz archives transparently by extension.
package modelfile

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Open opens path for reading. Files ending in .gz or .xz are
// decompressed on the fly; Close releases the underlying file.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return &readCloser{r: zr, closers: []io.Closer{zr, f}}, nil
	case ".xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return &readCloser{r: xr, closers: []io.Closer{f}}, nil
	default:
		return f, nil
	}
}

type readCloser struct {
	r       io.Reader
	closers []io.Closer
}

func (rc *readCloser) Read(p []byte) (int, error) { return rc.r.Read(p) }

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
