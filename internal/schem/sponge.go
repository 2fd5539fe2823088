package schem

import (
	"bytes"

	"schemcraft.dev/internal/nbt"
	"schemcraft.dev/internal/voxel"
)

const airID = "minecraft:air"

// EncodeSponge produces a gzipped Sponge v2 .schem container. The palette is
// built in first-occurrence order over the y,z,x sweep with air always
// present at index 0, and BlockData stores one fixed-width two-byte
// little-endian index per voxel, so len(BlockData) == 2*W*H*D always. The
// verifier relies on that exact size.
func EncodeSponge(g *voxel.Grid) ([]byte, error) {
	s := g.Shape()
	if err := checkDims(s); err != nil {
		return nil, err
	}

	names := []string{airID}
	index := map[string]uint16{airID: 0}
	blockData := make([]byte, 0, 2*s.Volume())
	for y := 0; y < s.H; y++ {
		for z := 0; z < s.D; z++ {
			for x := 0; x < s.W; x++ {
				id := g.Get(x, y, z)
				if id == "" {
					id = airID
				}
				n, ok := index[id]
				if !ok {
					n = uint16(len(names))
					index[id] = n
					names = append(names, id)
				}
				blockData = append(blockData, byte(n), byte(n>>8))
			}
		}
	}

	var buf bytes.Buffer
	w := nbt.NewWriter(&buf)
	w.BeginCompound("Schematic")
	w.Int("Version", 2)
	w.Int("DataVersion", dataVersion)
	w.Short("Width", int16(s.W))
	w.Short("Height", int16(s.H))
	w.Short("Length", int16(s.D))
	w.BeginCompound("Palette")
	for _, name := range names {
		w.Int(name, int32(index[name]))
	}
	w.EndCompound()
	w.ByteArray("BlockData", blockData)
	w.EndCompound()

	return gzipBytes(buf.Bytes())
}
