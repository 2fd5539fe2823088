// Package convert drives the pipeline end to end: voxelize the input, prune
// stray components, match voxel colors to palette blocks, and export the
// schematic format chosen by the output path.
package convert

import (
	"fmt"
	"log"
	"os"
	"time"

	"schemcraft.dev/internal/history"
	"schemcraft.dev/internal/palette"
	"schemcraft.dev/internal/scan"
	"schemcraft.dev/internal/schem"
	"schemcraft.dev/internal/voxel"
)

// Stats summarizes one finished run.
type Stats struct {
	Shape    voxel.Shape
	Voxels   int // occupied voxels before pruning
	Pruned   int // voxels removed with their components
	Blocks   int // non-air cells exported
	Distinct int // distinct block identifiers used
	Format   schem.Format
	Bytes    int64
	Duration time.Duration
}

// Run executes one conversion. The history index is optional; logger must not
// be nil.
func Run(cfg Config, logger *log.Logger, idx *history.Index) (Stats, error) {
	start := time.Now()
	var st Stats

	res, err := scan.Load(cfg.Mesh, cfg.Height)
	if err != nil {
		return st, fmt.Errorf("voxelize %s: %w", cfg.Mesh, err)
	}
	st.Shape = res.Shape
	st.Voxels = len(res.Coords)
	logger.Printf("input %s: grid %dx%dx%d, %d voxels",
		cfg.Mesh, res.Shape.W, res.Shape.H, res.Shape.D, len(res.Coords))

	pal, err := palette.Load(cfg.Palette)
	if err != nil {
		return st, err
	}
	logger.Printf("palette %s: %d colors (digest %.8s)", cfg.Palette, pal.Len(), pal.Digest)

	kept, keptIdx, err := voxel.Prune(res.Coords, cfg.MinComponent)
	if err != nil {
		return st, err
	}
	st.Pruned = st.Voxels - len(kept)
	if st.Pruned > 0 {
		logger.Printf("pruned %d voxels in components smaller than %d", st.Pruned, cfg.MinComponent)
	}
	colors := make([][3]uint8, len(keptIdx))
	for i, src := range keptIdx {
		colors[i] = res.Colors[src]
	}

	g, err := voxel.BuildGrid(kept, colors, res.Shape, pal)
	if err != nil {
		return st, err
	}
	st.Blocks = g.NonAir()
	st.Distinct = len(g.Identifiers())

	meta := schem.Meta{Name: cfg.Name, Author: cfg.Author, Description: cfg.Description}
	st.Format = schem.FormatForPath(cfg.Out)
	if err := schem.Export(cfg.Out, g, meta); err != nil {
		return st, err
	}
	if fi, err := os.Stat(cfg.Out); err == nil {
		st.Bytes = fi.Size()
	}
	st.Duration = time.Since(start)
	logger.Printf("wrote %s: %s, %d blocks (%d kinds), %d bytes in %s",
		cfg.Out, st.Format, st.Blocks, st.Distinct, st.Bytes,
		st.Duration.Round(time.Millisecond))

	if idx != nil {
		idx.Record(history.Export{
			Path:          cfg.Out,
			Format:        string(st.Format),
			Width:         res.Shape.W,
			Height:        res.Shape.H,
			Depth:         res.Shape.D,
			Blocks:        st.Blocks,
			PaletteDigest: pal.Digest,
			Source:        cfg.Mesh,
			Duration:      st.Duration,
		})
	}
	return st, nil
}
