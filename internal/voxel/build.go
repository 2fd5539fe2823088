package voxel

import (
	"errors"
	"fmt"
)

// ErrInputMismatch reports coordinate and color slices of different length,
// which is a caller bug rather than a data problem.
var ErrInputMismatch = errors.New("coordinate and color counts differ")

// Matcher answers perceptual nearest-color queries. *palette.Palette
// satisfies it.
type Matcher interface {
	Nearest(r, g, b float64) string
}

// BuildGrid maps every sampled color through the matcher and stores the
// resulting identifier at its coordinate. Cells without a sample stay air.
// colors[i] must describe coords[i].
func BuildGrid(coords [][3]int, colors [][3]uint8, shape Shape, m Matcher) (*Grid, error) {
	if len(coords) != len(colors) {
		return nil, fmt.Errorf("%w: %d coordinates, %d colors", ErrInputMismatch, len(coords), len(colors))
	}
	g := NewGrid(shape)
	for i, c := range coords {
		if !shape.Contains(c[0], c[1], c[2]) {
			return nil, fmt.Errorf("coordinate %v outside grid %dx%dx%d", c, shape.W, shape.H, shape.D)
		}
		col := colors[i]
		g.Set(c[0], c[1], c[2], m.Nearest(float64(col[0]), float64(col[1]), float64(col[2])))
	}
	return g, nil
}
