package refset

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/swatch/internal/colour"
)

// MaxDecompressedSize bounds how much a compressed reference set may expand.
const MaxDecompressedSize = 64 * 1024 * 1024

// LoadFile loads a reference set from path.
// Files ending in .xz, .gz or .bz2 are decompressed transparently.
func LoadFile(path string, layout Layout, logger hclog.Logger) (colour.ReferenceSet, error) {
	if path == "" {
		return colour.ReferenceSet{}, fmt.Errorf("reference set path cannot be empty")
	}

	file, err := os.Open(path) // #nosec G304 - User-specified reference set, intended to be read
	if err != nil {
		if os.IsNotExist(err) {
			return colour.ReferenceSet{}, fmt.Errorf("reference set not found: %s", path)
		}
		return colour.ReferenceSet{}, fmt.Errorf("failed to open reference set: %w", err)
	}
	defer file.Close()

	r, err := decompressor(path, file)
	if err != nil {
		return colour.ReferenceSet{}, err
	}

	set, err := Load(r, layout, logger)
	if err != nil {
		return set, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return set, nil
}

// decompressor wraps r according to the file extension of path.
func decompressor(path string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return newLimitedReader(xzr, MaxDecompressedSize), nil
	case ".gz":
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return newLimitedReader(gzr, MaxDecompressedSize), nil
	case ".bz2":
		return newLimitedReader(bzip2.NewReader(r), MaxDecompressedSize), nil
	default:
		return r, nil
	}
}

// limitedReader fails once more than its budget has been read.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func newLimitedReader(r io.Reader, maxBytes int64) *limitedReader {
	return &limitedReader{r: r, remaining: maxBytes}
}

// Read implements io.Reader with size limits.
func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, fmt.Errorf("decompression size limit exceeded")
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}
