package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"schemcraft.dev/internal/convert"
	"schemcraft.dev/internal/history"
)

func main() {
	var (
		configPath   = flag.String("config", "", "run config yaml (flags override file values)")
		mesh         = flag.String("mesh", "", "input mesh (.stl) or voxel grid (.json)")
		palettePath  = flag.String("palette", "", "block palette json (default palettes/wool_concrete.json)")
		height       = flag.Int("height", 0, "target model height in blocks (default 64)")
		minComponent = flag.Int("min-component", 0, "prune components smaller than this many voxels (default 50)")
		out          = flag.String("out", "", "output path; the extension selects the format (default data/out/scan.litematic)")
		name         = flag.String("name", "", "schematic name (default: output basename)")
		author       = flag.String("author", "", "schematic author")
		desc         = flag.String("desc", "", "schematic description")
		indexPath    = flag.String("index", "", "optional sqlite export index path")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[convert] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := convert.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *mesh != "" {
		cfg.Mesh = *mesh
	}
	if *palettePath != "" {
		cfg.Palette = *palettePath
	}
	if *height != 0 {
		cfg.Height = *height
	}
	if *minComponent != 0 {
		cfg.MinComponent = *minComponent
	}
	if *out != "" {
		cfg.Out = *out
		cfg.Name = "" // re-derive from the new output path
	}
	if *name != "" {
		cfg.Name = *name
	}
	if *author != "" {
		cfg.Author = *author
	}
	if *desc != "" {
		cfg.Description = *desc
	}
	if *indexPath != "" {
		cfg.IndexDB = *indexPath
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	var idx *history.Index
	if cfg.IndexDB != "" {
		idx, err = history.OpenSQLite(cfg.IndexDB)
		if err != nil {
			logger.Fatalf("open export index: %v", err)
		}
		defer idx.Close()
	}

	if _, err := convert.Run(cfg, logger, idx); err != nil {
		logger.Fatalf("convert: %v", err)
	}
}
