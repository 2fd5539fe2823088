package schem

import (
	"testing"

	"schemcraft.dev/internal/voxel"
)

func TestPackStates_RoundTrip(t *testing.T) {
	// Widths that divide 64 and widths that force entries to straddle a
	// long boundary.
	for _, bitsPer := range []int{2, 3, 5, 7} {
		max := uint16(1)<<uint(bitsPer) - 1
		cells := make([]uint16, 100)
		for i := range cells {
			cells[i] = uint16(i*7+3) % (max + 1)
		}
		states := packStates(cells, bitsPer)
		wantLongs := (len(cells)*bitsPer + 63) / 64
		if len(states) != wantLongs {
			t.Fatalf("bits=%d: %d longs, want %d", bitsPer, len(states), wantLongs)
		}
		got := unpackStates(states, bitsPer, len(cells))
		for i := range cells {
			if got[i] != cells[i] {
				t.Fatalf("bits=%d: entry %d = %d, want %d", bitsPer, i, got[i], cells[i])
			}
		}
	}
}

func TestEncodeLitematic_Structure(t *testing.T) {
	s := voxel.Shape{W: 2, H: 2, D: 2}
	g := buildGrid(s, map[[3]int]string{
		{0, 0, 0}: "minecraft:red_wool",
		{0, 1, 0}: "minecraft:red_wool",
		{1, 1, 1}: "minecraft:white_wool",
	})
	raw, err := EncodeLitematic(g, Meta{})
	if err != nil {
		t.Fatalf("EncodeLitematic: %v", err)
	}
	name, root := decode(t, raw)
	if name != "" {
		t.Fatalf("root name %q, want unnamed root", name)
	}
	if got, _ := root["MinecraftDataVersion"].(int32); got != dataVersion {
		t.Errorf("MinecraftDataVersion = %v, want %d", root["MinecraftDataVersion"], dataVersion)
	}
	if got, _ := root["Version"].(int32); got != 5 {
		t.Errorf("Version = %v, want 5", root["Version"])
	}

	md, ok := root["Metadata"].(map[string]any)
	if !ok {
		t.Fatalf("Metadata = %T, want compound", root["Metadata"])
	}
	created, _ := md["TimeCreated"].(int64)
	modified, _ := md["TimeModified"].(int64)
	if created <= 0 || created != modified {
		t.Errorf("TimeCreated = %d, TimeModified = %d", created, modified)
	}
	size, _ := md["EnclosingSize"].(map[string]any)
	for axis, want := range map[string]int32{"x": 2, "y": 2, "z": 2} {
		if got, ok := size[axis].(int32); !ok || got != want {
			t.Errorf("EnclosingSize.%s = %v, want %d", axis, size[axis], want)
		}
	}
	if got, _ := md["RegionCount"].(int32); got != 1 {
		t.Errorf("RegionCount = %v, want 1", md["RegionCount"])
	}
	if got, _ := md["TotalBlocks"].(int32); got != 3 {
		t.Errorf("TotalBlocks = %v, want 3", md["TotalBlocks"])
	}
	if got, _ := md["TotalVolume"].(int32); got != 8 {
		t.Errorf("TotalVolume = %v, want 8", md["TotalVolume"])
	}

	regions, ok := root["Regions"].(map[string]any)
	if !ok || len(regions) != 1 {
		t.Fatalf("Regions = %v, want a single region", root["Regions"])
	}
	region, ok := regions[defaultName].(map[string]any)
	if !ok {
		t.Fatalf("region %q missing", defaultName)
	}
	pos, _ := region["Position"].(map[string]any)
	for _, axis := range []string{"x", "y", "z"} {
		if got, ok := pos[axis].(int32); !ok || got != 0 {
			t.Errorf("Position.%s = %v, want 0", axis, pos[axis])
		}
	}

	paletteList, _ := region["BlockStatePalette"].([]any)
	if len(paletteList) != 3 {
		t.Fatalf("palette has %d entries, want 3", len(paletteList))
	}
	names := make([]string, len(paletteList))
	for i, entry := range paletteList {
		comp, ok := entry.(map[string]any)
		if !ok {
			t.Fatalf("palette entry %d = %T, want compound", i, entry)
		}
		names[i], _ = comp["Name"].(string)
	}
	if names[0] != "minecraft:air" {
		t.Errorf("palette[0] = %q, want minecraft:air", names[0])
	}
	if names[1] != "minecraft:red_wool" || names[2] != "minecraft:white_wool" {
		t.Errorf("palette order = %v, want first-occurrence order", names)
	}

	for _, field := range []string{"Entities", "TileEntities", "PendingBlockTicks", "PendingFluidTicks"} {
		list, ok := region[field].([]any)
		if !ok || len(list) != 0 {
			t.Errorf("%s = %v, want empty list", field, region[field])
		}
	}

	states, _ := region["BlockStates"].([]int64)
	if len(states) != 1 {
		t.Fatalf("BlockStates has %d longs, want 1", len(states))
	}
	cells := unpackStates(states, 2, s.Volume())
	i := 0
	for y := 0; y < s.H; y++ {
		for z := 0; z < s.D; z++ {
			for x := 0; x < s.W; x++ {
				want := g.Get(x, y, z)
				if want == "" {
					want = "minecraft:air"
				}
				if got := names[cells[i]]; got != want {
					t.Errorf("cell (%d,%d,%d) decodes to %q, want %q", x, y, z, got, want)
				}
				i++
			}
		}
	}
}

func TestEncodeLitematic_MetaFields(t *testing.T) {
	g := buildGrid(voxel.Shape{W: 1, H: 1, D: 1}, map[[3]int]string{
		{0, 0, 0}: "minecraft:stone",
	})
	raw, err := EncodeLitematic(g, Meta{Name: "tower", Author: "alex", Description: "spire test"})
	if err != nil {
		t.Fatalf("EncodeLitematic: %v", err)
	}
	_, root := decode(t, raw)
	md, _ := root["Metadata"].(map[string]any)
	if got, _ := md["Name"].(string); got != "tower" {
		t.Errorf("Name = %q, want tower", got)
	}
	if got, _ := md["Author"].(string); got != "alex" {
		t.Errorf("Author = %q, want alex", got)
	}
	if got, _ := md["Description"].(string); got != "spire test" {
		t.Errorf("Description = %q, want %q", got, "spire test")
	}
	regions, _ := root["Regions"].(map[string]any)
	if _, ok := regions["tower"]; !ok {
		t.Errorf("region keys = %v, want the metadata name", regions)
	}
}

func TestEncodeLitematic_DefaultMeta(t *testing.T) {
	got := Meta{}.withDefaults()
	want := Meta{Name: defaultName, Author: defaultAuthor, Description: defaultDescription}
	if got != want {
		t.Fatalf("withDefaults() = %+v, want %+v", got, want)
	}
	partial := Meta{Name: "kept"}.withDefaults()
	if partial.Name != "kept" || partial.Author != defaultAuthor {
		t.Fatalf("withDefaults() = %+v, want kept name with default author", partial)
	}
}

func TestEncodeLitematic_TwoBitFloor(t *testing.T) {
	// A two-entry palette still packs at two bits per entry.
	s := voxel.Shape{W: 5, H: 3, D: 7}
	g := voxel.NewGrid(s)
	g.Set(4, 2, 6, "minecraft:stone")
	raw, err := EncodeLitematic(g, Meta{})
	if err != nil {
		t.Fatalf("EncodeLitematic: %v", err)
	}
	_, root := decode(t, raw)
	regions, _ := root["Regions"].(map[string]any)
	region, _ := regions[defaultName].(map[string]any)
	states, _ := region["BlockStates"].([]int64)
	wantLongs := (s.Volume()*2 + 63) / 64
	if len(states) != wantLongs {
		t.Fatalf("BlockStates has %d longs, want %d", len(states), wantLongs)
	}
	cells := unpackStates(states, 2, s.Volume())
	nonAir := 0
	for _, c := range cells {
		if c != 0 {
			nonAir++
		}
	}
	if nonAir != 1 {
		t.Fatalf("%d non-air entries, want 1", nonAir)
	}
	if last := cells[s.Volume()-1]; last != 1 {
		t.Fatalf("final cell = %d, want the stone entry", last)
	}
}
