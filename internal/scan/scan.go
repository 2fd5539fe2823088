// Package scan voxelizes source geometry into lattice samples for the
// conversion pipeline: parallel coordinate and color slices plus the bounding
// shape. STL meshes are sampled against a ray-containment solid; JSON voxel
// grids are read as-is.
package scan

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/unixpickle/model3d/model3d"

	"schemcraft.dev/internal/voxel"
)

// ErrNoVoxels reports a voxelization that produced nothing solid.
var ErrNoVoxels = errors.New("voxelization produced no voxels; try increasing the height or check the mesh")

// Mid-gray stand-in for sources that carry no color information.
var defaultColor = [3]uint8{190, 190, 190}

// Result is the voxelized model. Coords and Colors run in parallel; the
// coordinates are 0-based and fall inside Shape.
type Result struct {
	Coords [][3]int
	Colors [][3]uint8
	Shape  voxel.Shape
}

// Load voxelizes the input at path, choosing the reader from the extension:
// .stl meshes are scanned at unit pitch, .json files are read as voxel grids.
func Load(path string, height int) (*Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return STL(path, height)
	case ".json":
		return GridFile(path)
	}
	return nil, fmt.Errorf("unsupported input %s: want .stl or .json", path)
}

// STL loads an STL mesh and voxelizes it so the largest bounding-box extent
// spans height blocks.
func STL(path string, height int) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mesh: %w", err)
	}
	defer f.Close()
	tris, err := model3d.ReadSTL(f)
	if err != nil {
		return nil, fmt.Errorf("read mesh %s: %w", path, err)
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("mesh %s has no triangles", path)
	}
	return Mesh(model3d.NewMeshTriangles(tris), height)
}

// Mesh voxelizes a triangle mesh. The mesh is translated to the origin and
// scaled uniformly so its largest extent equals height, then every unit cell
// whose center lies inside the solid becomes one voxel. The returned
// coordinates are re-based to the occupied bounding box, so the shape is
// tight even when boundary cells stay empty.
func Mesh(mesh *model3d.Mesh, height int) (*Result, error) {
	if height <= 0 {
		return nil, fmt.Errorf("height must be positive, got %d", height)
	}
	min, max := mesh.Min(), mesh.Max()
	extent := max.Sub(min).MaxCoord()
	if extent <= 0 {
		return nil, errors.New("mesh has zero size; check the file")
	}
	scale := float64(height) / extent
	scaled := mesh.MapCoords(func(c model3d.Coord3D) model3d.Coord3D {
		return c.Sub(min).Scale(scale)
	})
	solid := model3d.NewColliderSolid(model3d.MeshToCollider(scaled))

	bound := scaled.Max()
	nx := int(math.Ceil(bound.X))
	ny := int(math.Ceil(bound.Y))
	nz := int(math.Ceil(bound.Z))

	var raw [][3]int
	for y := 0; y < ny; y++ {
		for z := 0; z < nz; z++ {
			for x := 0; x < nx; x++ {
				center := model3d.XYZ(float64(x)+0.5, float64(y)+0.5, float64(z)+0.5)
				if solid.Contains(center) {
					raw = append(raw, [3]int{x, y, z})
				}
			}
		}
	}
	if len(raw) == 0 {
		return nil, ErrNoVoxels
	}

	lo, hi := raw[0], raw[0]
	for _, p := range raw {
		for a := 0; a < 3; a++ {
			if p[a] < lo[a] {
				lo[a] = p[a]
			}
			if p[a] > hi[a] {
				hi[a] = p[a]
			}
		}
	}
	coords := make([][3]int, len(raw))
	colors := make([][3]uint8, len(raw))
	for i, p := range raw {
		coords[i] = [3]int{p[0] - lo[0], p[1] - lo[1], p[2] - lo[2]}
		colors[i] = defaultColor
	}
	s := voxel.Shape{W: hi[0] - lo[0] + 1, H: hi[1] - lo[1] + 1, D: hi[2] - lo[2] + 1}
	return &Result{Coords: coords, Colors: colors, Shape: s}, nil
}
