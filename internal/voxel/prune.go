package voxel

import "errors"

// ErrEmptyResult is returned when pruning removes every voxel. The threshold
// is almost always mis-tuned relative to the model scale when this happens.
var ErrEmptyResult = errors.New("no voxels left after pruning; try lowering the minimum component size")

// Face-adjacent neighbors, one step along exactly one axis.
var neighbors = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Prune drops every connected component (6-adjacency) smaller than minSize
// voxels. It returns the surviving coordinates in input order plus their
// positions in the input, so parallel per-voxel data can be filtered the same
// way. The input slice is never modified. Components are seeded in input
// enumeration order, which makes the whole pass deterministic.
func Prune(coords [][3]int, minSize int) ([][3]int, []int, error) {
	if len(coords) == 0 {
		return nil, nil, ErrEmptyResult
	}
	if minSize <= 1 {
		out := make([][3]int, len(coords))
		copy(out, coords)
		idx := make([]int, len(coords))
		for i := range idx {
			idx[i] = i
		}
		return out, idx, nil
	}

	// Occupancy lattice over the bounding box, cell -> input index or -1.
	lo, hi := coords[0], coords[0]
	for _, c := range coords[1:] {
		for a := 0; a < 3; a++ {
			if c[a] < lo[a] {
				lo[a] = c[a]
			}
			if c[a] > hi[a] {
				hi[a] = c[a]
			}
		}
	}
	bw := hi[0] - lo[0] + 1
	bh := hi[1] - lo[1] + 1
	bd := hi[2] - lo[2] + 1
	cell := func(c [3]int) int {
		return ((c[2]-lo[2])*bh+(c[1]-lo[1]))*bw + (c[0] - lo[0])
	}
	occ := make([]int32, bw*bh*bd)
	for i := range occ {
		occ[i] = -1
	}
	for i, c := range coords {
		occ[cell(c)] = int32(i)
	}

	label := make([]int32, len(coords))
	for i := range label {
		label[i] = -1
	}
	var sizes []int
	queue := make([]int32, 0, 64)
	for i := range coords {
		if label[i] != -1 {
			continue
		}
		comp := int32(len(sizes))
		label[i] = comp
		queue = append(queue[:0], int32(i))
		members := 0
		for len(queue) > 0 {
			ci := queue[0]
			queue = queue[1:]
			members++
			c := coords[ci]
			for _, d := range neighbors {
				n := [3]int{c[0] + d[0], c[1] + d[1], c[2] + d[2]}
				if n[0] < lo[0] || n[0] > hi[0] || n[1] < lo[1] || n[1] > hi[1] || n[2] < lo[2] || n[2] > hi[2] {
					continue
				}
				ni := occ[cell(n)]
				if ni == -1 || label[ni] != -1 {
					continue
				}
				label[ni] = comp
				queue = append(queue, ni)
			}
		}
		sizes = append(sizes, members)
	}

	var out [][3]int
	var idx []int
	for i, c := range coords {
		if sizes[label[i]] >= minSize {
			out = append(out, c)
			idx = append(idx, i)
		}
	}
	if len(out) == 0 {
		return nil, nil, ErrEmptyResult
	}
	return out, idx, nil
}
