// Package formats provides decoders for the HGP and LSW binary 3D-model
// container formats. Both variants share one byte layout; HGP is decoded
// from a fully-loaded buffer and LSW through a seekable stream, and both
// paths run the same algorithm over the Source abstraction.
package formats

import (
	"errors"
	"fmt"
	"image"

	"github.com/Faultbox/hgpkit/pkg/math"
)

// Decode errors.
var (
	ErrTruncatedData  = errors.New("truncated model container")
	ErrOutOfBounds    = errors.New("offset out of bounds")
	ErrCyclicLink     = errors.New("cyclic next-offset chain")
	ErrBadMeshTree    = errors.New("invalid mesh tree parent index")
	ErrMissingSection = errors.New("required section absent")
)

// Texture is one embedded texture. Image is the decoded pixel data; Data
// holds the raw blob and is retained when decoding fails so callers can
// inspect or re-decode it.
type Texture struct {
	Image image.Image
	Data  []byte
}

// Material holds the color and texture reference for a draw chunk.
type Material struct {
	Red   float32
	Green float32
	Blue  float32
	Alpha uint32 // raw field, interpretation is up to the renderer

	// TextureIdx indexes Model.Textures, or -1 for untextured.
	TextureIdx int
	// Alternate is set when the source index carried the variant flag in
	// bit 15; TextureIdx then holds the low 15 bits.
	Alternate bool
}

// VertexBuffer is one extracted vertex block. Stride is 0 until a mesh
// referencing the block has been visited, and stays 0 for unknown vertex
// type codes.
type VertexBuffer struct {
	Data   []byte
	Stride int
}

// Chunk is one indexed draw call: an index buffer plus the material,
// vertex buffer, and world transform it draws with.
type Chunk struct {
	VertexBufferIdx int
	MaterialIdx     int
	PrimitiveType   uint32
	Elements        []uint16
	Transform       math.Mat4
}

// Model is the engine-neutral result of a decode. All buffers are owned by
// the Model; nothing references the source container after decoding.
type Model struct {
	Textures      []Texture
	Materials     []Material
	VertexBuffers []VertexBuffer
	Chunks        []Chunk

	// Warnings collects recoverable anomalies (unknown vertex types,
	// undecodable textures) encountered during the decode.
	Warnings []string
}

// SetTextures replaces the model's texture list.
func (m *Model) SetTextures(textures []Texture) {
	m.Textures = textures
}

// SetMaterials replaces the model's material list.
func (m *Model) SetMaterials(materials []Material) {
	m.Materials = materials
}

// SetVertexBuffers replaces the model's vertex buffer list.
func (m *Model) SetVertexBuffers(buffers []VertexBuffer) {
	m.VertexBuffers = buffers
}

// AddChunk appends one draw chunk.
func (m *Model) AddChunk(chunk Chunk) {
	m.Chunks = append(m.Chunks, chunk)
}

// TotalElementCount returns the number of indices across all chunks.
func (m *Model) TotalElementCount() int {
	total := 0
	for i := range m.Chunks {
		total += len(m.Chunks[i].Elements)
	}
	return total
}

// ChunksByMaterial returns the chunks referencing the given material index.
func (m *Model) ChunksByMaterial(materialIdx int) []*Chunk {
	var chunks []*Chunk
	for i := range m.Chunks {
		if m.Chunks[i].MaterialIdx == materialIdx {
			chunks = append(chunks, &m.Chunks[i])
		}
	}
	return chunks
}

func (m *Model) warnf(format string, args ...interface{}) {
	m.Warnings = append(m.Warnings, fmt.Sprintf(format, args...))
}
