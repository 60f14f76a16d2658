package formats

import (
	"fmt"
	"image"
	"sort"

	"go.uber.org/zap"
)

// Material header layout: u32 material count, then body-relative u32
// offsets to each material record.
const matHdrOffsetsOff = 0x04

// Material record field offsets.
const (
	matRed        = 0x54
	matGreen      = 0x58
	matBlue       = 0x5C
	matAlpha      = 0x74
	matTextureIdx = 0x78
)

// Texture header layout: block offset, block size, u32 texture count, then
// 20-byte per-texture descriptors from +0x1C. Blob offsets are relative to
// the start of the texture block's data region, which begins 12 bytes into
// the block.
const (
	texHdrBlockOff   = 0x00
	texHdrBlockSize  = 0x04
	texHdrCount      = 0x08
	texHdrDescTable  = 0x1C
	texHdrDescSize   = 20
	texBlockDataSkip = 12
)

const (
	maxMaterials = 4096
	maxTextures  = 1024
)

// TextureDecoder turns a raw embedded pixel blob into an image.
type TextureDecoder func(data []byte) (image.Image, error)

// decodeMaterials reads every material record. The signed texture index
// uses bit 15 as an "alternate variant" flag: when set (and the index is
// not -1) the effective texture index is the low 15 bits.
func decodeMaterials(src Source, materialHeaderOff uint32) ([]Material, error) {
	if materialHeaderOff == 0 {
		return nil, nil
	}
	base := body(materialHeaderOff)

	count, err := src.U32(base)
	if err != nil {
		return nil, fmt.Errorf("reading material count: %w", err)
	}
	if count > maxMaterials {
		return nil, fmt.Errorf("%w: material count %d", ErrOutOfBounds, count)
	}

	materials := make([]Material, count)

	for i := uint32(0); i < count; i++ {
		off, err := src.U32(base + matHdrOffsetsOff + uint64(i)*4)
		if err != nil {
			return nil, fmt.Errorf("reading material %d offset: %w", i, err)
		}
		rec := body(off)

		mat := &materials[i]
		if mat.Red, err = src.F32(rec + matRed); err != nil {
			return nil, fmt.Errorf("reading material %d: %w", i, err)
		}
		if mat.Green, err = src.F32(rec + matGreen); err != nil {
			return nil, fmt.Errorf("reading material %d: %w", i, err)
		}
		if mat.Blue, err = src.F32(rec + matBlue); err != nil {
			return nil, fmt.Errorf("reading material %d: %w", i, err)
		}
		if mat.Alpha, err = src.U32(rec + matAlpha); err != nil {
			return nil, fmt.Errorf("reading material %d: %w", i, err)
		}

		idx, err := src.I16(rec + matTextureIdx)
		if err != nil {
			return nil, fmt.Errorf("reading material %d texture index: %w", i, err)
		}
		if idx != -1 && idx&0x7FFF != idx {
			mat.TextureIdx = int(idx & 0x7FFF)
			mat.Alternate = true
		} else {
			mat.TextureIdx = int(idx)
		}
	}

	return materials, nil
}

// decodeTextures locates every embedded texture blob and runs it through
// the pixel decoder. The format stores no per-blob length, so each blob
// runs to the next blob's start offset, or to the end of the block for the
// last one. A blob the decoder rejects is kept raw with a warning; it does
// not abort the decode.
func decodeTextures(src Source, model *Model, log *zap.Logger, textureHeaderOff uint32, decode TextureDecoder) ([]Texture, error) {
	if textureHeaderOff == 0 {
		return nil, nil
	}
	base := body(textureHeaderOff)

	blockOff, err := src.U32(base + texHdrBlockOff)
	if err != nil {
		return nil, fmt.Errorf("reading texture block offset: %w", err)
	}
	blockSize, err := src.U32(base + texHdrBlockSize)
	if err != nil {
		return nil, fmt.Errorf("reading texture block size: %w", err)
	}
	count, err := src.U32(base + texHdrCount)
	if err != nil {
		return nil, fmt.Errorf("reading texture count: %w", err)
	}
	if count > maxTextures {
		return nil, fmt.Errorf("%w: texture count %d", ErrOutOfBounds, count)
	}

	offsets := make([]uint32, count)
	for i := uint32(0); i < count; i++ {
		off, err := src.U32(base + texHdrDescTable + uint64(i)*texHdrDescSize)
		if err != nil {
			return nil, fmt.Errorf("reading texture %d offset: %w", i, err)
		}
		if off >= blockSize {
			return nil, fmt.Errorf("%w: texture %d offset 0x%x beyond block size 0x%x",
				ErrOutOfBounds, i, off, blockSize)
		}
		offsets[i] = off
	}

	// Blob lengths come from the gap to the next blob in offset order.
	ends := append([]uint32(nil), offsets...)
	sort.Slice(ends, func(a, b int) bool { return ends[a] < ends[b] })

	dataBase := base + uint64(blockOff) + texBlockDataSkip
	textures := make([]Texture, count)

	for i := uint32(0); i < count; i++ {
		end := blockSize
		for _, e := range ends {
			if e > offsets[i] {
				end = e
				break
			}
		}

		blob, err := src.Bytes(dataBase+uint64(offsets[i]), end-offsets[i])
		if err != nil {
			return nil, fmt.Errorf("copying texture %d: %w", i, err)
		}
		textures[i].Data = blob

		if decode == nil {
			continue
		}
		img, err := decode(blob)
		if err != nil {
			model.warnf("texture %d: %v", i, err)
			log.Warn("undecodable texture", zap.Uint32("index", i), zap.Error(err))
			continue
		}
		textures[i].Image = img
	}

	return textures, nil
}
