package formats

import (
	"fmt"

	"github.com/Faultbox/hgpkit/pkg/math"
	"github.com/Faultbox/hgpkit/pkg/texture"
	"go.uber.org/zap"
)

// Layer header layout: a name offset then four slot offsets, 20 bytes per
// layer. Even slots point to per-mesh-slot tables of mesh header offsets;
// odd slots point directly at a single static mesh header.
const (
	layerHdrSize  = 20
	layerSlotsOff = 4
	layerSlots    = 4
)

// DefaultLayers are the layer indices decoded when DecodeOptions.Layers is
// nil. Layers 1 and 3 hold lower-quality variants of the same geometry.
var DefaultLayers = []int{0, 2}

// DecodeOptions controls a decode. The zero value selects the default
// layers, DDS texture decoding, and no logging.
type DecodeOptions struct {
	// Layers lists the layer indices to decode; nil means DefaultLayers.
	Layers []int

	// TextureDecoder decodes located texture blobs; nil means DDS.
	// RawTextures disables decoding entirely, keeping blobs raw.
	TextureDecoder TextureDecoder
	RawTextures    bool

	// Logger receives warnings about recoverable anomalies; nil means no
	// logging. Warnings are also recorded on the Model either way.
	Logger *zap.Logger
}

func (o DecodeOptions) layers() map[int]bool {
	selected := o.Layers
	if selected == nil {
		selected = DefaultLayers
	}
	set := make(map[int]bool, len(selected))
	for _, l := range selected {
		set[l] = true
	}
	return set
}

func (o DecodeOptions) textureDecoder() TextureDecoder {
	if o.RawTextures {
		return nil
	}
	if o.TextureDecoder != nil {
		return o.TextureDecoder
	}
	return texture.DecodeDDS
}

func (o DecodeOptions) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// decodeModel runs the full decode over a Source: textures, materials,
// transform hierarchy, vertex blocks, then the per-layer mesh walks. The
// vertex buffers are attached last since stride is only known once the
// meshes referencing each block have been visited.
func decodeModel(src Source, opts DecodeOptions) (*Model, error) {
	log := opts.logger()
	model := &Model{}

	dir, err := readHeaderDirectory(src)
	if err != nil {
		return nil, fmt.Errorf("resolving header directory: %w", err)
	}

	hdr, err := readModelHeader(src, dir.model)
	if err != nil {
		return nil, fmt.Errorf("resolving model header: %w", err)
	}

	textures, err := decodeTextures(src, model, log, dir.textures, opts.textureDecoder())
	if err != nil {
		return nil, fmt.Errorf("decoding textures: %w", err)
	}
	model.SetTextures(textures)

	materials, err := decodeMaterials(src, dir.material)
	if err != nil {
		return nil, fmt.Errorf("decoding materials: %w", err)
	}
	model.SetMaterials(materials)

	world, err := buildWorldTransforms(src, hdr.meshTree, hdr.transforms, int(hdr.numMeshes))
	if err != nil {
		return nil, fmt.Errorf("building transform hierarchy: %w", err)
	}

	buffers, err := extractVertexBlocks(src, dir.vertex)
	if err != nil {
		return nil, fmt.Errorf("extracting vertex blocks: %w", err)
	}

	if err := walkLayers(src, model, log, hdr, opts.layers(), world, buffers); err != nil {
		return nil, err
	}

	model.SetVertexBuffers(buffers)

	return model, nil
}

// walkLayers visits the four slots of every selected layer. Even slots hold
// one mesh header offset per mesh slot, walked with that slot's world
// transform; odd slots hold a single static mesh header walked with the
// first static transform composed onto the root world transform.
func walkLayers(src Source, model *Model, log *zap.Logger, hdr *modelHeader, selected map[int]bool, world []math.Mat4, buffers []VertexBuffer) error {
	if hdr.layerHeaders == 0 || hdr.numLayers == 0 {
		return nil
	}

	for i := 0; i < int(hdr.numLayers); i++ {
		if !selected[i] {
			continue
		}
		layerBase := body(hdr.layerHeaders) + uint64(i)*layerHdrSize

		for j := 0; j < layerSlots; j++ {
			slotOff, err := src.U32(layerBase + layerSlotsOff + uint64(j)*4)
			if err != nil {
				return fmt.Errorf("reading layer %d slot %d: %w", i, j, err)
			}
			if slotOff == 0 {
				continue
			}

			if j%2 == 0 {
				// Per-mesh-slot table, one mesh header offset per slot.
				for k := 0; k < len(world); k++ {
					mho, err := src.U32(body(slotOff) + uint64(k)*4)
					if err != nil {
						return fmt.Errorf("reading layer %d slot %d entry %d: %w", i, j, k, err)
					}
					if err := walkMeshChunks(src, model, log, mho, world[k], buffers); err != nil {
						return fmt.Errorf("layer %d slot %d mesh slot %d: %w", i, j, k, err)
					}
				}
				continue
			}

			// Static geometry: one mesh header, fixed transform.
			if hdr.staticTransforms == 0 || len(world) == 0 {
				return fmt.Errorf("%w: static transform for layer %d slot %d", ErrMissingSection, i, j)
			}
			static, err := readMatrix(src, body(hdr.staticTransforms))
			if err != nil {
				return fmt.Errorf("reading static transform: %w", err)
			}
			transform := static.Mul(world[0])
			if err := walkMeshChunks(src, model, log, slotOff, transform, buffers); err != nil {
				return fmt.Errorf("layer %d slot %d static mesh: %w", i, j, err)
			}
		}
	}

	return nil
}
