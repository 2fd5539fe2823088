// Package schem writes the finished block grid to the three schematic file
// formats: the legacy MCEdit container, the Sponge v2 container, and the
// Litematica region container. The formats share no layout, so each encoder
// stands alone; the only common pieces are the empty-grid check and the
// single-shot file write.
package schem

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"schemcraft.dev/internal/voxel"
)

// ErrEmptyGrid rejects exporting a grid with a zero dimension.
var ErrEmptyGrid = errors.New("grid has a zero dimension")

// Data version stamped into the Sponge and Litematica containers (1.16.5).
const dataVersion = 2586

// Legacy and Sponge store dimensions as signed shorts.
const maxShortDim = 0x7FFF

// Format names a serializer.
type Format string

const (
	FormatLegacy    Format = "schematic"
	FormatSponge    Format = "schem"
	FormatLitematic Format = "litematic"
)

// FormatForPath selects the serializer from the output path extension.
// Unknown extensions fall back to Sponge v2.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".schematic":
		return FormatLegacy
	case ".litematic":
		return FormatLitematic
	default:
		return FormatSponge
	}
}

// Export encodes g in the format selected by path and writes the file.
func Export(path string, g *voxel.Grid, meta Meta) error {
	var (
		data []byte
		err  error
	)
	switch FormatForPath(path) {
	case FormatLegacy:
		data, err = EncodeLegacy(g)
	case FormatLitematic:
		data, err = EncodeLitematic(g, meta)
	default:
		data, err = EncodeSponge(g)
	}
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile creates missing parent directories and writes data in one shot,
// so a failed export never leaves a truncated file behind a successful return.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func checkVolume(s voxel.Shape) error {
	if s.Volume() == 0 {
		return fmt.Errorf("%w: %dx%dx%d", ErrEmptyGrid, s.W, s.H, s.D)
	}
	return nil
}

func checkDims(s voxel.Shape) error {
	if err := checkVolume(s); err != nil {
		return err
	}
	if s.W > maxShortDim || s.H > maxShortDim || s.D > maxShortDim {
		return fmt.Errorf("grid %dx%dx%d exceeds the short-sized dimension limit", s.W, s.H, s.D)
	}
	return nil
}

func gzipBytes(raw []byte) ([]byte, error) {
	var out bytes.Buffer
	gz := gzip.NewWriter(&out)
	if _, err := gz.Write(raw); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
