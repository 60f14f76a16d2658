package formats

import (
	"encoding/binary"
	gomath "math"

	"github.com/Faultbox/hgpkit/pkg/math"
)

// testContainer builds synthetic containers field by field. All put offsets
// are body-relative except putAbs.
type testContainer struct {
	data []byte
}

func newTestContainer(bodySize uint32) *testContainer {
	return &testContainer{data: make([]byte, BodyOffset+bodySize)}
}

func (c *testContainer) putAbs(off uint32, v uint32) {
	binary.LittleEndian.PutUint32(c.data[off:], v)
}

func (c *testContainer) putU32(off uint32, v uint32) {
	binary.LittleEndian.PutUint32(c.data[BodyOffset+off:], v)
}

func (c *testContainer) putU16(off uint32, v uint16) {
	binary.LittleEndian.PutUint16(c.data[BodyOffset+off:], v)
}

func (c *testContainer) putI8(off uint32, v int8) {
	c.data[BodyOffset+off] = byte(v)
}

func (c *testContainer) putF32(off uint32, v float32) {
	binary.LittleEndian.PutUint32(c.data[BodyOffset+off:], gomath.Float32bits(v))
}

func (c *testContainer) putBytes(off uint32, b []byte) {
	copy(c.data[BodyOffset+off:], b)
}

func (c *testContainer) putMat(off uint32, m math.Mat4) {
	for i, v := range m {
		c.putF32(off+uint32(i)*4, v)
	}
}

func (c *testContainer) source() Source {
	return NewBufferSource(c.data)
}

// putMesh writes one mesh record at off.
func (c *testContainer) putMesh(off, next, material, vertexType, blockIdx, chunkOff uint32) {
	c.putU32(off+meshNextOff, next)
	c.putU32(off+meshMaterialIdx, material)
	c.putU32(off+meshVertexType, vertexType)
	c.putU32(off+meshVertexBlockIdx, blockIdx)
	c.putU32(off+meshChunkOff, chunkOff)
}

// putChunk writes one chunk record at off.
func (c *testContainer) putChunk(off, next, prim uint32, count uint16, elemsOff uint32) {
	c.putU32(off+chunkNextOff, next)
	c.putU32(off+chunkPrimType, prim)
	c.putU16(off+chunkNumElements, count)
	c.putU32(off+chunkElementsOff, elemsOff)
}

// putElements writes count 16-bit indices at off.
func (c *testContainer) putElements(off uint32, elems []uint16) {
	for i, e := range elems {
		c.putU16(off+uint32(i)*2, e)
	}
}

// putTreeNode writes the parent index of mesh tree node i, tree at treeOff.
func (c *testContainer) putTreeNode(treeOff uint32, i int, parent int8) {
	c.putI8(treeOff+uint32(i)*treeNodeSize+treeNodeParentOff, parent)
}

// putMeshHeader writes a mesh header at off pointing at meshOff.
func (c *testContainer) putMeshHeader(off, meshOff uint32) {
	c.putU32(off+meshHdrMeshOff, meshOff)
}
