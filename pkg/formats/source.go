package formats

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Source provides bounds-checked little-endian reads at absolute offsets
// within a model container. The HGP variant reads an in-memory buffer, the
// LSW variant seeks a stream; both see the same byte layout and must decode
// identically.
//
// Offsets are uint64 so that sums of 32-bit file offsets cannot wrap back
// into the container before the bounds check sees them.
type Source interface {
	// Len returns the container size in bytes.
	Len() uint32

	U8(off uint64) (uint8, error)
	I8(off uint64) (int8, error)
	U16(off uint64) (uint16, error)
	I16(off uint64) (int16, error)
	U32(off uint64) (uint32, error)
	F32(off uint64) (float32, error)

	// Bytes returns an owned copy of n bytes starting at off. The returned
	// slice never aliases the container.
	Bytes(off uint64, n uint32) ([]byte, error)
}

// boundsErr builds the standard out-of-range error for a read.
func boundsErr(off uint64, n, size uint32) error {
	return fmt.Errorf("%w: read of %d bytes at offset 0x%x exceeds container size %d", ErrOutOfBounds, n, off, size)
}

// bufferSource reads from a fully-loaded byte slice.
type bufferSource struct {
	data []byte
}

// NewBufferSource returns a Source over an in-memory container.
func NewBufferSource(data []byte) Source {
	return &bufferSource{data: data}
}

func (s *bufferSource) Len() uint32 {
	return uint32(len(s.data))
}

func (s *bufferSource) check(off uint64, n uint32) error {
	end := off + uint64(n)
	if end > uint64(len(s.data)) {
		return boundsErr(off, n, uint32(len(s.data)))
	}
	return nil
}

func (s *bufferSource) U8(off uint64) (uint8, error) {
	if err := s.check(off, 1); err != nil {
		return 0, err
	}
	return s.data[off], nil
}

func (s *bufferSource) I8(off uint64) (int8, error) {
	v, err := s.U8(off)
	return int8(v), err
}

func (s *bufferSource) U16(off uint64) (uint16, error) {
	if err := s.check(off, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(s.data[off:]), nil
}

func (s *bufferSource) I16(off uint64) (int16, error) {
	v, err := s.U16(off)
	return int16(v), err
}

func (s *bufferSource) U32(off uint64) (uint32, error) {
	if err := s.check(off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(s.data[off:]), nil
}

func (s *bufferSource) F32(off uint64) (float32, error) {
	v, err := s.U32(off)
	return math.Float32frombits(v), err
}

func (s *bufferSource) Bytes(off uint64, n uint32) ([]byte, error) {
	if err := s.check(off, n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	copy(buf, s.data[off:])
	return buf, nil
}

// streamSource reads via explicit seek+read on an io.ReadSeeker.
type streamSource struct {
	rs   io.ReadSeeker
	size uint32
}

// NewStreamSource returns a Source over a seekable stream. The stream length
// is discovered once; the stream position is unspecified afterwards.
func NewStreamSource(rs io.ReadSeeker) (Source, error) {
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("sizing stream: %w", err)
	}
	return &streamSource{rs: rs, size: uint32(end)}, nil
}

func (s *streamSource) Len() uint32 {
	return s.size
}

func (s *streamSource) read(off uint64, n uint32, buf []byte) error {
	end := off + uint64(n)
	if end > uint64(s.size) {
		return boundsErr(off, n, s.size)
	}
	if _, err := s.rs.Seek(int64(off), io.SeekStart); err != nil {
		return fmt.Errorf("seeking to 0x%x: %w", off, err)
	}
	if _, err := io.ReadFull(s.rs, buf); err != nil {
		return fmt.Errorf("reading %d bytes at 0x%x: %w", n, off, err)
	}
	return nil
}

func (s *streamSource) U8(off uint64) (uint8, error) {
	var buf [1]byte
	if err := s.read(off, 1, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (s *streamSource) I8(off uint64) (int8, error) {
	v, err := s.U8(off)
	return int8(v), err
}

func (s *streamSource) U16(off uint64) (uint16, error) {
	var buf [2]byte
	if err := s.read(off, 2, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func (s *streamSource) I16(off uint64) (int16, error) {
	v, err := s.U16(off)
	return int16(v), err
}

func (s *streamSource) U32(off uint64) (uint32, error) {
	var buf [4]byte
	if err := s.read(off, 4, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (s *streamSource) F32(off uint64) (float32, error) {
	v, err := s.U32(off)
	return math.Float32frombits(v), err
}

func (s *streamSource) Bytes(off uint64, n uint32) ([]byte, error) {
	buf := make([]byte, n)
	if err := s.read(off, n, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
