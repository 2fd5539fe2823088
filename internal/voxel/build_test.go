package voxel

import (
	"errors"
	"testing"
)

// brightnessMatcher picks by summed channel value, enough to exercise the
// builder without a real palette.
type brightnessMatcher struct{}

func (brightnessMatcher) Nearest(r, g, b float64) string {
	if r+g+b >= 384 {
		return "minecraft:white_wool"
	}
	return "minecraft:black_wool"
}

func TestBuildGrid_Basic(t *testing.T) {
	shape := Shape{W: 2, H: 2, D: 2}
	coords := [][3]int{{0, 0, 0}, {1, 1, 1}}
	colors := [][3]uint8{{250, 250, 250}, {5, 5, 5}}

	g, err := BuildGrid(coords, colors, shape, brightnessMatcher{})
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	if got := g.Get(0, 0, 0); got != "minecraft:white_wool" {
		t.Errorf("cell (0,0,0): got %q", got)
	}
	if got := g.Get(1, 1, 1); got != "minecraft:black_wool" {
		t.Errorf("cell (1,1,1): got %q", got)
	}
	if got := g.Get(1, 0, 0); got != "" {
		t.Errorf("unset cell: got %q, want air", got)
	}
	if g.NonAir() != 2 {
		t.Errorf("NonAir: got %d want 2", g.NonAir())
	}
}

func TestBuildGrid_LengthMismatch(t *testing.T) {
	_, err := BuildGrid([][3]int{{0, 0, 0}}, nil, Shape{W: 1, H: 1, D: 1}, brightnessMatcher{})
	if !errors.Is(err, ErrInputMismatch) {
		t.Fatalf("got %v, want ErrInputMismatch", err)
	}
}

func TestBuildGrid_OutOfRangeCoordinate(t *testing.T) {
	_, err := BuildGrid(
		[][3]int{{0, 0, 3}},
		[][3]uint8{{1, 2, 3}},
		Shape{W: 1, H: 1, D: 1},
		brightnessMatcher{},
	)
	if err == nil {
		t.Fatalf("expected error for out-of-range coordinate")
	}
}

func TestGrid_Identifiers(t *testing.T) {
	g := NewGrid(Shape{W: 3, H: 1, D: 1})
	g.Set(0, 0, 0, "minecraft:stone")
	g.Set(1, 0, 0, "minecraft:red_wool")
	g.Set(2, 0, 0, "minecraft:stone")

	got := g.Identifiers()
	want := []string{"minecraft:stone", "minecraft:red_wool"}
	if len(got) != len(want) {
		t.Fatalf("Identifiers: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Identifiers[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGrid_SharedIdentifiers(t *testing.T) {
	g := NewGrid(Shape{W: 4, H: 1, D: 1})
	for x := 0; x < 4; x++ {
		g.Set(x, 0, 0, "minecraft:stone")
	}
	if len(g.names) != 2 {
		t.Fatalf("names: got %d entries, want air + stone", len(g.names))
	}
	if g.NonAir() != 4 {
		t.Fatalf("NonAir: got %d want 4", g.NonAir())
	}
	g.Set(2, 0, 0, "")
	if g.NonAir() != 3 {
		t.Fatalf("NonAir after clear: got %d want 3", g.NonAir())
	}
	if got := g.Get(2, 0, 0); got != "" {
		t.Fatalf("cleared cell: got %q", got)
	}
}
