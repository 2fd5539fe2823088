package schem

import (
	"bytes"
	"math/bits"
	"strings"
	"time"

	"schemcraft.dev/internal/nbt"
	"schemcraft.dev/internal/voxel"
)

// Meta is the Litematica header block. Blank fields get tool defaults.
type Meta struct {
	Name        string
	Author      string
	Description string
}

const (
	defaultName        = "schemcraft"
	defaultAuthor      = "schemcraft"
	defaultDescription = "Generated from mesh"
)

func (m Meta) withDefaults() Meta {
	if strings.TrimSpace(m.Name) == "" {
		m.Name = defaultName
	}
	if strings.TrimSpace(m.Author) == "" {
		m.Author = defaultAuthor
	}
	if strings.TrimSpace(m.Description) == "" {
		m.Description = defaultDescription
	}
	return m
}

// EncodeLitematic produces a gzipped .litematic container with a single
// region at the origin spanning the whole grid. Non-air cells become palette
// references in the bit-packed BlockStates array; air cells are the default
// fill and never recorded explicitly.
func EncodeLitematic(g *voxel.Grid, meta Meta) ([]byte, error) {
	s := g.Shape()
	if err := checkVolume(s); err != nil {
		return nil, err
	}
	meta = meta.withDefaults()

	names := []string{airID}
	index := map[string]uint16{airID: 0}
	cells := make([]uint16, 0, s.Volume())
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
				cells = append(cells, n)
			}
		}
	}

	bitsPer := bits.Len(uint(len(names) - 1))
	if bitsPer < 2 {
		bitsPer = 2
	}
	states := packStates(cells, bitsPer)

	now := time.Now().UnixMilli()
	var buf bytes.Buffer
	w := nbt.NewWriter(&buf)
	w.BeginCompound("")
	w.Int("MinecraftDataVersion", dataVersion)
	w.Int("Version", 5)

	w.BeginCompound("Metadata")
	w.Long("TimeCreated", now)
	w.Long("TimeModified", now)
	w.BeginCompound("EnclosingSize")
	w.Int("x", int32(s.W))
	w.Int("y", int32(s.H))
	w.Int("z", int32(s.D))
	w.EndCompound()
	w.String("Description", meta.Description)
	w.Int("RegionCount", 1)
	w.Int("TotalBlocks", int32(g.NonAir()))
	w.String("Author", meta.Author)
	w.Int("TotalVolume", int32(s.Volume()))
	w.String("Name", meta.Name)
	w.EndCompound()

	w.BeginCompound("Regions")
	w.BeginCompound(meta.Name)
	w.BeginCompound("Position")
	w.Int("x", 0)
	w.Int("y", 0)
	w.Int("z", 0)
	w.EndCompound()
	w.BeginCompound("Size")
	w.Int("x", int32(s.W))
	w.Int("y", int32(s.H))
	w.Int("z", int32(s.D))
	w.EndCompound()
	w.BeginList("BlockStatePalette", nbt.TagCompound, len(names))
	for _, name := range names {
		w.String("Name", name)
		w.EndCompound()
	}
	w.BeginList("Entities", nbt.TagCompound, 0)
	w.BeginList("PendingBlockTicks", nbt.TagCompound, 0)
	w.BeginList("PendingFluidTicks", nbt.TagCompound, 0)
	w.BeginList("TileEntities", nbt.TagCompound, 0)
	w.LongArray("BlockStates", states)
	w.EndCompound()
	w.EndCompound()

	w.EndCompound()
	return gzipBytes(buf.Bytes())
}

// packStates packs palette indices at bitsPer bits each into a long array,
// little-endian within the stream; entries span long boundaries (the
// Litematica layout, unlike the padded chunk layout).
func packStates(cells []uint16, bitsPer int) []int64 {
	words := make([]uint64, (len(cells)*bitsPer+63)/64)
	for i, v := range cells {
		pos := i * bitsPer
		word := pos >> 6
		off := uint(pos & 63)
		words[word] |= uint64(v) << off
		if off+uint(bitsPer) > 64 {
			words[word+1] |= uint64(v) >> (64 - off)
		}
	}
	out := make([]int64, len(words))
	for i, u := range words {
		out[i] = int64(u)
	}
	return out
}

func unpackStates(states []int64, bitsPer, count int) []uint16 {
	mask := uint64(1)<<uint(bitsPer) - 1
	out := make([]uint16, count)
	for i := range out {
		pos := i * bitsPer
		word := pos >> 6
		off := uint(pos & 63)
		v := uint64(states[word]) >> off
		if off+uint(bitsPer) > 64 {
			v |= uint64(states[word+1]) << (64 - off)
		}
		out[i] = uint16(v & mask)
	}
	return out
}
