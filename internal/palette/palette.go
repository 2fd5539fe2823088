// Package palette loads block color palettes and answers perceptual
// nearest-color queries. Distances are computed in CIE Lab rather than RGB so
// that "closest" tracks human judgement, which plain RGB distance gets wrong
// for dark and saturated colors.
package palette

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidPalette marks malformed palette files: bad entry shape,
// out-of-range channels, duplicate or empty names.
var ErrInvalidPalette = errors.New("invalid palette")

// Entry is one palette color. Entries keep their file order; that order is the
// tie-break for equidistant matches.
type Entry struct {
	Name string
	RGB  [3]uint8
}

type Palette struct {
	Entries []Entry
	Index   map[string]int
	Digest  string

	lab [][3]float64
}

// Load reads a palette JSON file of the form [[name,[r,g,b]],...].
func Load(path string) (*Palette, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func Parse(raw []byte) (*Palette, error) {
	var items [][]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPalette, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidPalette)
	}

	p := &Palette{
		Entries: make([]Entry, 0, len(items)),
		Index:   make(map[string]int, len(items)),
		Digest:  sha256Hex(raw),
		lab:     make([][3]float64, 0, len(items)),
	}
	for i, it := range items {
		if len(it) != 2 {
			return nil, fmt.Errorf("%w: entry %d: want [name, [r,g,b]]", ErrInvalidPalette, i)
		}
		var name string
		if err := json.Unmarshal(it[0], &name); err != nil {
			return nil, fmt.Errorf("%w: entry %d: name: %v", ErrInvalidPalette, i, err)
		}
		if name == "" {
			return nil, fmt.Errorf("%w: entry %d: empty name", ErrInvalidPalette, i)
		}
		var rgb []float64
		if err := json.Unmarshal(it[1], &rgb); err != nil {
			return nil, fmt.Errorf("%w: entry %d %q: color: %v", ErrInvalidPalette, i, name, err)
		}
		if len(rgb) != 3 {
			return nil, fmt.Errorf("%w: entry %d %q: want 3 channels, got %d", ErrInvalidPalette, i, name, len(rgb))
		}
		var e Entry
		e.Name = name
		for c, v := range rgb {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("%w: entry %d %q: channel %d out of range: %g", ErrInvalidPalette, i, name, c, v)
			}
			e.RGB[c] = uint8(v)
		}
		if _, dup := p.Index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidPalette, name)
		}
		p.Index[name] = len(p.Entries)
		p.Entries = append(p.Entries, e)
		p.lab = append(p.lab, Lab(
			float64(e.RGB[0])/255,
			float64(e.RGB[1])/255,
			float64(e.RGB[2])/255,
		))
	}
	return p, nil
}

// Lab converts a normalized sRGB triple (components in [0,1]) to CIE Lab with
// a D65 reference white. Kept separate from the matcher so the transform can
// be checked on its own.
func Lab(r, g, b float64) [3]float64 {
	l, a, bb := colorful.Color{R: r, G: g, B: b}.Lab()
	return [3]float64{l, a, bb}
}

// Nearest returns the name of the perceptually closest entry. Channels are
// clamped to [0,255] before conversion, never rejected. Ties resolve to the
// earliest entry in file order, so results are reproducible for a given
// palette.
func (p *Palette) Nearest(r, g, b float64) string {
	q := Lab(clamp255(r)/255, clamp255(g)/255, clamp255(b)/255)
	best := 0
	bestD := math.MaxFloat64
	for i, lab := range p.lab {
		d0 := lab[0] - q[0]
		d1 := lab[1] - q[1]
		d2 := lab[2] - q[2]
		// Squared distance; monotone with the true distance, no sqrt needed.
		d := d0*d0 + d1*d1 + d2*d2
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return p.Entries[best].Name
}

func (p *Palette) Len() int {
	return len(p.Entries)
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
