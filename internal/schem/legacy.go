package schem

import (
	"bytes"
	"strings"

	"schemcraft.dev/internal/nbt"
	"schemcraft.dev/internal/voxel"
)

// Dye color order shared by wool and concrete metadata values.
var colorIndex = map[string]byte{
	"white": 0, "orange": 1, "magenta": 2, "light_blue": 3,
	"yellow": 4, "lime": 5, "pink": 6, "gray": 7,
	"light_gray": 8, "cyan": 9, "purple": 10, "blue": 11,
	"brown": 12, "green": 13, "red": 14, "black": 15,
}

var plankSpecies = map[string]byte{
	"oak": 0, "spruce": 1, "birch": 2, "jungle": 3, "acacia": 4, "dark_oak": 5,
}

// legacyCode maps a block identifier to the pre-flattening (id, data) pair.
// Identifiers without a legacy equivalent degrade to stone on purpose: the
// legacy format predates most modern blocks and a recognizable shape beats a
// load failure.
func legacyCode(id string) (byte, byte) {
	if id == "" {
		return 0, 0
	}
	b := strings.TrimPrefix(id, "minecraft:")
	switch {
	case b == "air":
		return 0, 0
	case strings.HasSuffix(b, "_wool"):
		return 35, colorIndex[strings.TrimSuffix(b, "_wool")]
	case strings.HasSuffix(b, "_concrete"):
		return 251, colorIndex[strings.TrimSuffix(b, "_concrete")]
	case b == "stone":
		return 1, 0
	case strings.HasSuffix(b, "_planks"):
		return 5, plankSpecies[strings.TrimSuffix(b, "_planks")]
	}
	return 1, 0
}

// EncodeLegacy produces a gzipped legacy .schematic container. Blocks and
// Data are flat byte arrays addressed by y*(W*D) + z*W + x; that index order
// is part of the format, not a choice.
func EncodeLegacy(g *voxel.Grid) ([]byte, error) {
	s := g.Shape()
	if err := checkDims(s); err != nil {
		return nil, err
	}

	total := s.Volume()
	blocks := make([]byte, total)
	data := make([]byte, total)
	for x := 0; x < s.W; x++ {
		for y := 0; y < s.H; y++ {
			for z := 0; z < s.D; z++ {
				id, meta := legacyCode(g.Get(x, y, z))
				i := y*(s.W*s.D) + z*s.W + x
				blocks[i] = id
				data[i] = meta & 0x0F
			}
		}
	}

	var buf bytes.Buffer
	w := nbt.NewWriter(&buf)
	w.BeginCompound("Schematic")
	w.Short("Width", int16(s.W))
	w.Short("Height", int16(s.H))
	w.Short("Length", int16(s.D))
	w.String("Materials", "Alpha")
	w.ByteArray("Blocks", blocks)
	w.ByteArray("Data", data)
	w.BeginList("Entities", nbt.TagCompound, 0)
	w.BeginList("TileEntities", nbt.TagCompound, 0)
	w.Int("WEOffsetX", 0)
	w.Int("WEOffsetY", 0)
	w.Int("WEOffsetZ", 0)
	w.EndCompound()

	return gzipBytes(buf.Bytes())
}
