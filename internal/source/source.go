// internal/source/source.go
package source

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
)

// Open opens a document for reading. Files ending in .br or .gz are
// decompressed transparently, so saved page captures can be used as is.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".br":
		return &closeWrapper{ReadCloser: io.NopCloser(brotli.NewReader(f)), originalBody: f}, nil
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to read gzip header of %s: %w", path, err)
		}
		return &closeWrapper{ReadCloser: zr, originalBody: f}, nil
	default:
		return f, nil
	}
}

// ReadAll opens path and returns its decompressed content.
func ReadAll(path string) ([]byte, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// closeWrapper closes both the decompression reader and the file under it.
type closeWrapper struct {
	io.ReadCloser
	originalBody io.ReadCloser
}

func (w *closeWrapper) Close() error {
	err1 := w.ReadCloser.Close()
	err2 := w.originalBody.Close()
	return errors.Join(err1, err2)
}
