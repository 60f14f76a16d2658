// Package texture decodes the embedded pixel formats found in model
// containers and converts them into renderer-friendly images.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/lukegb/dds"
)

// ddsMagic starts every DDS blob.
var ddsMagic = []byte("DDS ")

// IsDDS reports whether data begins with the DDS magic.
func IsDDS(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], ddsMagic)
}

// DecodeDDS decodes a DDS pixel blob.
func DecodeDDS(data []byte) (image.Image, error) {
	if !IsDDS(data) {
		return nil, fmt.Errorf("not a DDS blob")
	}
	img, err := dds.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding DDS: %w", err)
	}
	return img, nil
}

// ImageToRGBA converts any image.Image to *image.RGBA.
func ImageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.At(x, y)
			r16, g16, b16, a16 := c.RGBA()
			rgba.SetRGBA(x, y, color.RGBA{
				R: uint8(r16 >> 8),
				G: uint8(g16 >> 8),
				B: uint8(b16 >> 8),
				A: uint8(a16 >> 8),
			})
		}
	}

	return rgba
}
