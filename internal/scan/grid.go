package scan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"schemcraft.dev/internal/voxel"
)

// Grid reads a JSON voxel grid: a 3D nested array with z on the outer
// dimension, then y, then x. A cell is either a number (zero means empty,
// anything else is filled with the default color) or an [r,g,b] triple in
// 0-255 for a filled cell with its own color.
func Grid(r io.Reader) (*Result, error) {
	var layers [][][]json.RawMessage
	if err := json.NewDecoder(r).Decode(&layers); err != nil {
		return nil, fmt.Errorf("decode voxel grid: %w", err)
	}
	if len(layers) == 0 || len(layers[0]) == 0 || len(layers[0][0]) == 0 {
		return nil, ErrNoVoxels
	}
	d, h, w := len(layers), len(layers[0]), len(layers[0][0])

	var coords [][3]int
	var colors [][3]uint8
	for z, layer := range layers {
		if len(layer) != h {
			return nil, fmt.Errorf("voxel grid is ragged: layer %d has %d rows, want %d", z, len(layer), h)
		}
		for y, row := range layer {
			if len(row) != w {
				return nil, fmt.Errorf("voxel grid is ragged: layer %d row %d has %d cells, want %d", z, y, len(row), w)
			}
			for x, cell := range row {
				filled, rgb, err := parseCell(cell)
				if err != nil {
					return nil, fmt.Errorf("voxel grid cell (%d,%d,%d): %w", x, y, z, err)
				}
				if !filled {
					continue
				}
				coords = append(coords, [3]int{x, y, z})
				colors = append(colors, rgb)
			}
		}
	}
	if len(coords) == 0 {
		return nil, ErrNoVoxels
	}
	return &Result{Coords: coords, Colors: colors, Shape: voxel.Shape{W: w, H: h, D: d}}, nil
}

// GridFile reads a JSON voxel grid from path.
func GridFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open voxel grid: %w", err)
	}
	defer f.Close()
	res, err := Grid(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func parseCell(raw json.RawMessage) (bool, [3]uint8, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0, defaultColor, nil
	}
	var rgb []float64
	if err := json.Unmarshal(raw, &rgb); err != nil {
		return false, [3]uint8{}, errors.New("want a number or an [r,g,b] triple")
	}
	if len(rgb) != 3 {
		return false, [3]uint8{}, fmt.Errorf("want 3 color channels, got %d", len(rgb))
	}
	var out [3]uint8
	for i, v := range rgb {
		if v < 0 || v > 255 {
			return false, out, fmt.Errorf("channel %d out of range: %g", i, v)
		}
		out[i] = uint8(v)
	}
	return true, out, nil
}
