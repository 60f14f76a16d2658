package formats

import (
	"fmt"
	"io"
	"os"
)

// ParseLSW decodes an LSW model container through a seekable stream. The
// layout is identical to HGP; only the access strategy differs, so the two
// parsers must produce identical models for identical bytes.
func ParseLSW(rs io.ReadSeeker, opts DecodeOptions) (*Model, error) {
	src, err := NewStreamSource(rs)
	if err != nil {
		return nil, err
	}
	if src.Len() < BodyOffset {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedData, src.Len())
	}
	return decodeModel(src, opts)
}

// ParseLSWFile decodes an LSW file from disk without loading it into
// memory up front.
func ParseLSWFile(path string, opts DecodeOptions) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening LSW file: %w", err)
	}
	defer f.Close()

	return ParseLSW(f, opts)
}
