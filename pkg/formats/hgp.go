package formats

import (
	"fmt"
	"os"
)

// ParseHGP decodes an HGP model container from a byte slice.
func ParseHGP(data []byte, opts DecodeOptions) (*Model, error) {
	if len(data) < BodyOffset {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedData, len(data))
	}
	return decodeModel(NewBufferSource(data), opts)
}

// ParseHGPFile decodes an HGP file from disk. The file is read into memory
// in full and released once decoding completes.
func ParseHGPFile(path string, opts DecodeOptions) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading HGP file: %w", err)
	}
	return ParseHGP(data, opts)
}
