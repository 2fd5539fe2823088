// Package voxel holds the in-memory pipeline stages between voxelization and
// export: component pruning over the occupancy lattice and assembly of the
// block identifier grid.
package voxel

import "fmt"

// Shape is the grid extent in blocks, x/y/z order.
type Shape struct {
	W, H, D int
}

func (s Shape) Volume() int {
	return s.W * s.H * s.D
}

func (s Shape) Contains(x, y, z int) bool {
	return x >= 0 && x < s.W && y >= 0 && y < s.H && z >= 0 && z < s.D
}

// Grid is the finished block grid: every cell is air or a namespaced block
// identifier. Cells store palette indices so repeated identifiers share one
// string; index 0 is air.
type Grid struct {
	shape Shape
	names []string
	index map[string]uint16
	cells []uint16
	set   int
}

func NewGrid(shape Shape) *Grid {
	return &Grid{
		shape: shape,
		names: []string{""},
		index: map[string]uint16{"": 0},
		cells: make([]uint16, shape.Volume()),
	}
}

func (g *Grid) Shape() Shape {
	return g.shape
}

// NonAir is the number of cells holding a block identifier.
func (g *Grid) NonAir() int {
	return g.set
}

func (g *Grid) at(x, y, z int) int {
	if !g.shape.Contains(x, y, z) {
		panic(fmt.Sprintf("voxel: coordinate (%d,%d,%d) outside grid %dx%dx%d",
			x, y, z, g.shape.W, g.shape.H, g.shape.D))
	}
	return (z*g.shape.H+y)*g.shape.W + x
}

func (g *Grid) Set(x, y, z int, id string) {
	i := g.at(x, y, z)
	n, ok := g.index[id]
	if !ok {
		n = uint16(len(g.names))
		g.index[id] = n
		g.names = append(g.names, id)
	}
	was := g.cells[i]
	g.cells[i] = n
	if was == 0 && n != 0 {
		g.set++
	} else if was != 0 && n == 0 {
		g.set--
	}
}

// Get returns the identifier at (x,y,z), or "" for air.
func (g *Grid) Get(x, y, z int) string {
	return g.names[g.cells[g.at(x, y, z)]]
}

// Identifiers returns the distinct non-air identifiers in first-use order.
func (g *Grid) Identifiers() []string {
	out := make([]string, 0, len(g.names)-1)
	out = append(out, g.names[1:]...)
	return out
}
