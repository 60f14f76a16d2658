package formats

import (
	"fmt"

	"github.com/Faultbox/hgpkit/pkg/math"
)

// Mesh tree node layout: a 4x4 float matrix, 4 floats of padding, then a
// signed 8-bit parent slot index. 96 bytes per node.
const (
	treeNodeSize      = 0x60
	treeNodeParentOff = 0x50

	matrixSize = 64
)

// readMatrix reads a 4x4 column-major float matrix at off.
func readMatrix(src Source, off uint64) (math.Mat4, error) {
	var m math.Mat4
	for i := uint64(0); i < 16; i++ {
		v, err := src.F32(off + i*4)
		if err != nil {
			return m, err
		}
		m[i] = v
	}
	return m, nil
}

// buildWorldTransforms composes one world transform per mesh slot from the
// parent-indexed tree and the dynamic transform array.
//
// The single increasing-index pass relies on parents preceding their
// children in slot order. The format never marks this, so it is validated
// here: a node whose parent index is not -1 and not a smaller slot index
// fails with ErrBadMeshTree instead of silently composing with an
// uninitialized parent transform.
func buildWorldTransforms(src Source, meshTreeOff, transformsOff uint32, numMeshes int) ([]math.Mat4, error) {
	if meshTreeOff == 0 || transformsOff == 0 {
		return nil, fmt.Errorf("%w: mesh tree or transform table", ErrMissingSection)
	}

	world := make([]math.Mat4, numMeshes)

	for i := 0; i < numMeshes; i++ {
		local, err := readMatrix(src, body(transformsOff)+uint64(i)*matrixSize)
		if err != nil {
			return nil, fmt.Errorf("reading transform for mesh slot %d: %w", i, err)
		}

		parent, err := src.I8(body(meshTreeOff) + uint64(i)*treeNodeSize + treeNodeParentOff)
		if err != nil {
			return nil, fmt.Errorf("reading parent index for mesh slot %d: %w", i, err)
		}

		if parent == -1 {
			world[i] = local
			continue
		}
		if parent < 0 || int(parent) >= i {
			return nil, fmt.Errorf("%w: slot %d has parent %d", ErrBadMeshTree, i, parent)
		}
		world[i] = local.Mul(world[parent])
	}

	return world, nil
}
