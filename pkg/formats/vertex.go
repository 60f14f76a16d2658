package formats

import "fmt"

// Vertex header layout: a u32 block count at the section start, then
// 12-byte block descriptors from +0x10. Block data offsets are relative to
// the vertex header section, not the body.
const (
	vtxBlockTableOff = 0x10
	vtxBlockDescSize = 12

	vtxBlockSizeOff   = 0
	vtxBlockOffsetOff = 8
)

// Caps the block count to keep a corrupt header from allocating wildly.
const maxVertexBlocks = 4096

// extractVertexBlocks copies each declared vertex block into an owned
// buffer. Stride stays 0 until the mesh walk visits a mesh referencing the
// block; extraction order defines the 1-based index space those references
// use.
func extractVertexBlocks(src Source, vertexHeaderOff uint32) ([]VertexBuffer, error) {
	if vertexHeaderOff == 0 {
		return nil, nil
	}
	base := body(vertexHeaderOff)

	count, err := src.U32(base)
	if err != nil {
		return nil, fmt.Errorf("reading vertex block count: %w", err)
	}
	if count > maxVertexBlocks {
		return nil, fmt.Errorf("%w: vertex block count %d", ErrOutOfBounds, count)
	}

	buffers := make([]VertexBuffer, count)

	for i := uint32(0); i < count; i++ {
		desc := base + vtxBlockTableOff + uint64(i)*vtxBlockDescSize

		size, err := src.U32(desc + vtxBlockSizeOff)
		if err != nil {
			return nil, fmt.Errorf("reading vertex block %d size: %w", i, err)
		}
		off, err := src.U32(desc + vtxBlockOffsetOff)
		if err != nil {
			return nil, fmt.Errorf("reading vertex block %d offset: %w", i, err)
		}

		data, err := src.Bytes(base+uint64(off), size)
		if err != nil {
			return nil, fmt.Errorf("copying vertex block %d: %w", i, err)
		}
		buffers[i] = VertexBuffer{Data: data}
	}

	return buffers, nil
}
