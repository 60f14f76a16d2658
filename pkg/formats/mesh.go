package formats

import (
	"fmt"

	"github.com/Faultbox/hgpkit/pkg/math"
	"go.uber.org/zap"
)

// Mesh header layout: the mesh list offset sits at +0x0C.
const meshHdrMeshOff = 0x0C

// Mesh record layout.
const (
	meshNextOff        = 0x00
	meshMaterialIdx    = 0x08
	meshVertexType     = 0x0C
	meshVertexBlockIdx = 0x1C
	meshChunkOff       = 0x30
)

// Chunk record layout.
const (
	chunkNextOff     = 0x00
	chunkPrimType    = 0x04
	chunkNumElements = 0x08
	chunkElementsOff = 0x0C
)

// vertexStride maps a mesh's vertex type code to its byte stride. Unknown
// codes yield 0; the mesh is still decoded but its vertex bytes cannot be
// interpreted downstream.
func vertexStride(vertexType uint32) int {
	switch vertexType {
	case 89:
		return 36
	case 93:
		return 56
	default:
		return 0
	}
}

// meshRecord is one node of the mesh linked list.
type meshRecord struct {
	next           uint32
	materialIdx    uint32
	vertexType     uint32
	vertexBlockIdx uint32
	chunkOff       uint32
}

func readMeshRecord(src Source, off uint64) (meshRecord, error) {
	var m meshRecord
	var err error
	if m.next, err = src.U32(off + meshNextOff); err != nil {
		return m, err
	}
	if m.materialIdx, err = src.U32(off + meshMaterialIdx); err != nil {
		return m, err
	}
	if m.vertexType, err = src.U32(off + meshVertexType); err != nil {
		return m, err
	}
	if m.vertexBlockIdx, err = src.U32(off + meshVertexBlockIdx); err != nil {
		return m, err
	}
	if m.chunkOff, err = src.U32(off + meshChunkOff); err != nil {
		return m, err
	}
	return m, nil
}

// chunkRecord is one node of the chunk linked list.
type chunkRecord struct {
	next          uint32
	primitiveType uint32
	numElements   uint16
	elementsOff   uint32
}

func readChunkRecord(src Source, off uint64) (chunkRecord, error) {
	var c chunkRecord
	var err error
	if c.next, err = src.U32(off + chunkNextOff); err != nil {
		return c, err
	}
	if c.primitiveType, err = src.U32(off + chunkPrimType); err != nil {
		return c, err
	}
	if c.numElements, err = src.U16(off + chunkNumElements); err != nil {
		return c, err
	}
	if c.elementsOff, err = src.U32(off + chunkElementsOff); err != nil {
		return c, err
	}
	return c, nil
}

// linkWalk yields the body-relative offsets of a next-offset chain starting
// at first, stopping at 0. Revisiting an offset fails with ErrCyclicLink so
// malformed chains cannot loop forever.
type linkWalk struct {
	visited map[uint32]struct{}
	what    string
}

func newLinkWalk(what string) *linkWalk {
	return &linkWalk{visited: make(map[uint32]struct{}), what: what}
}

func (w *linkWalk) visit(off uint32) error {
	if _, seen := w.visited[off]; seen {
		return fmt.Errorf("%w: %s at 0x%x revisited", ErrCyclicLink, w.what, off)
	}
	w.visited[off] = struct{}{}
	return nil
}

// walkMeshChunks decodes all geometry reachable from one mesh header.
//
// The mesh header references the first record of a mesh linked list; each
// mesh assigns the stride of the vertex block it references (1-based index)
// and carries a chunk linked list, each node of which becomes one output
// Chunk with an owned copy of its 16-bit index array and the supplied world
// transform. Offsets of 0 at the header or mesh level mean "no geometry"
// and are skipped silently.
func walkMeshChunks(src Source, model *Model, log *zap.Logger, meshHeaderOff uint32, transform math.Mat4, buffers []VertexBuffer) error {
	if meshHeaderOff == 0 {
		return nil
	}

	meshOff, err := src.U32(body(meshHeaderOff) + meshHdrMeshOff)
	if err != nil {
		return fmt.Errorf("reading mesh header at 0x%x: %w", meshHeaderOff, err)
	}
	if meshOff == 0 {
		return nil
	}

	meshes := newLinkWalk("mesh")

	for off := meshOff; off != 0; {
		if err := meshes.visit(off); err != nil {
			return err
		}

		mesh, err := readMeshRecord(src, body(off))
		if err != nil {
			return fmt.Errorf("reading mesh at 0x%x: %w", off, err)
		}

		// Vertex stride is specified per-mesh; unknown codes degrade to 0
		// but the mesh is still decoded.
		stride := vertexStride(mesh.vertexType)
		if stride == 0 {
			model.warnf("unknown vertex type %d at mesh 0x%x", mesh.vertexType, off)
			log.Warn("unknown vertex type",
				zap.Uint32("vertex_type", mesh.vertexType),
				zap.Uint32("mesh_offset", off))
		}

		if mesh.vertexBlockIdx == 0 || int(mesh.vertexBlockIdx) > len(buffers) {
			return fmt.Errorf("%w: mesh at 0x%x references vertex block %d of %d",
				ErrOutOfBounds, off, mesh.vertexBlockIdx, len(buffers))
		}
		blockIdx := int(mesh.vertexBlockIdx) - 1
		buffers[blockIdx].Stride = stride

		chunks := newLinkWalk("chunk")

		for chunkOff := mesh.chunkOff; chunkOff != 0; {
			if err := chunks.visit(chunkOff); err != nil {
				return err
			}

			chunk, err := readChunkRecord(src, body(chunkOff))
			if err != nil {
				return fmt.Errorf("reading chunk at 0x%x: %w", chunkOff, err)
			}

			elements, err := readElements(src, body(chunk.elementsOff), chunk.numElements)
			if err != nil {
				return fmt.Errorf("reading %d elements for chunk at 0x%x: %w",
					chunk.numElements, chunkOff, err)
			}

			model.AddChunk(Chunk{
				VertexBufferIdx: blockIdx,
				MaterialIdx:     int(mesh.materialIdx),
				PrimitiveType:   chunk.primitiveType,
				Elements:        elements,
				Transform:       transform,
			})

			chunkOff = chunk.next
		}

		off = mesh.next
	}

	return nil
}

// readElements copies count 16-bit indices starting at off.
func readElements(src Source, off uint64, count uint16) ([]uint16, error) {
	raw, err := src.Bytes(off, uint32(count)*2)
	if err != nil {
		return nil, err
	}
	elements := make([]uint16, count)
	for i := range elements {
		elements[i] = uint16(raw[i*2]) | uint16(raw[i*2+1])<<8
	}
	return elements, nil
}
