package formats

import "fmt"

// BodyOffset is the fixed file offset at which the container body starts.
// Every offset field inside the container is relative to it.
const BodyOffset = 0x30

// File header field offsets (absolute, from the start of the file).
const (
	hdrStringsOffset  = 0x04
	hdrTextureOffset  = 0x08
	hdrMaterialOffset = 0x0C
	hdrVertexOffset   = 0x14
	hdrModelOffset    = 0x18
	hdrFileLength     = 0x2C
)

// Model header field offsets (relative to the model header).
const (
	mdlMeshTreeOffset         = 0x14
	mdlTransformsOffset       = 0x18
	mdlStaticTransformsOffset = 0x1C
	mdlLayerHeaderOffset      = 0x24
	mdlNumMeshes              = 0x7C
	mdlNumLayers              = 0x7E
)

// headerDirectory holds the resolved top-level section offsets. All values
// are body-relative; 0 means the section is absent.
type headerDirectory struct {
	strings  uint32
	textures uint32
	material uint32
	vertex   uint32
	model    uint32

	fileLength uint32
}

// modelHeader holds the resolved per-model table offsets. Offsets are
// body-relative; 0 means absent.
type modelHeader struct {
	meshTree         uint32
	transforms       uint32
	staticTransforms uint32
	layerHeaders     uint32

	numMeshes uint8
	numLayers uint8
}

// readHeaderDirectory resolves the fixed top-level offset table. Any offset
// pointing outside the container is rejected up front so downstream code
// can dereference without rechecking the directory itself.
func readHeaderDirectory(src Source) (*headerDirectory, error) {
	if src.Len() < BodyOffset {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedData, src.Len())
	}

	dir := &headerDirectory{}

	fields := []struct {
		name string
		off  uint64
		dst  *uint32
	}{
		{"strings", hdrStringsOffset, &dir.strings},
		{"texture header", hdrTextureOffset, &dir.textures},
		{"material header", hdrMaterialOffset, &dir.material},
		{"vertex header", hdrVertexOffset, &dir.vertex},
		{"model header", hdrModelOffset, &dir.model},
	}

	for _, f := range fields {
		v, err := src.U32(f.off)
		if err != nil {
			return nil, fmt.Errorf("reading %s offset: %w", f.name, err)
		}
		if v != 0 && BodyOffset+uint64(v) >= uint64(src.Len()) {
			return nil, fmt.Errorf("%w: %s offset 0x%x", ErrOutOfBounds, f.name, v)
		}
		*f.dst = v
	}

	length, err := src.U32(hdrFileLength)
	if err != nil {
		return nil, fmt.Errorf("reading file length: %w", err)
	}
	if length != 0 && length > src.Len() {
		return nil, fmt.Errorf("%w: declared length %d exceeds container size %d",
			ErrTruncatedData, length, src.Len())
	}
	dir.fileLength = length

	return dir, nil
}

// readModelHeader resolves the per-model table offsets from the model
// header section.
func readModelHeader(src Source, off uint32) (*modelHeader, error) {
	if off == 0 {
		return nil, fmt.Errorf("%w: model header", ErrMissingSection)
	}
	base := body(off)

	hdr := &modelHeader{}

	var err error
	if hdr.meshTree, err = src.U32(base + mdlMeshTreeOffset); err != nil {
		return nil, fmt.Errorf("reading mesh tree offset: %w", err)
	}
	if hdr.transforms, err = src.U32(base + mdlTransformsOffset); err != nil {
		return nil, fmt.Errorf("reading transform table offset: %w", err)
	}
	if hdr.staticTransforms, err = src.U32(base + mdlStaticTransformsOffset); err != nil {
		return nil, fmt.Errorf("reading static transform table offset: %w", err)
	}
	if hdr.layerHeaders, err = src.U32(base + mdlLayerHeaderOffset); err != nil {
		return nil, fmt.Errorf("reading layer header offset: %w", err)
	}
	if hdr.numMeshes, err = src.U8(base + mdlNumMeshes); err != nil {
		return nil, fmt.Errorf("reading mesh count: %w", err)
	}
	if hdr.numLayers, err = src.U8(base + mdlNumLayers); err != nil {
		return nil, fmt.Errorf("reading layer count: %w", err)
	}

	return hdr, nil
}

// body converts a body-relative offset to an absolute container offset.
// The widening matters: a corrupt offset near 2^32 must land past the end
// of the container, not wrap around to its start.
func body(off uint32) uint64 {
	return BodyOffset + uint64(off)
}
