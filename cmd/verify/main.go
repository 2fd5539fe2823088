package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"

	"schemcraft.dev/internal/nbt"
)

func main() {
	flag.Parse()
	path := flag.Arg(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: verify <file.schem>")
		os.Exit(2)
	}

	failures, err := verify(path, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if failures > 0 {
		fmt.Fprintf(os.Stderr, "%d checks failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("ok: version 2, sizes match, indices in range, air present")
}

// verify decodes a Sponge v2 .schem, prints a report to out, and returns the
// number of failed checks. Errors are reserved for files that cannot be
// decoded at all.
func verify(path string, out, errw io.Writer) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	gz, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return 0, fmt.Errorf("gzip %s: %w", path, err)
	}
	name, root, err := nbt.Read(gz)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}
	if name != "Schematic" {
		return 0, fmt.Errorf("not a Sponge v2 schematic (root compound %q)", name)
	}

	failures := 0
	check := func(ok bool, format string, args ...any) {
		if !ok {
			failures++
			fmt.Fprintf(errw, "FAIL: "+format+"\n", args...)
		}
	}

	version, _ := root["Version"].(int32)
	dataVersion, _ := root["DataVersion"].(int32)
	w := dim(root, "Width")
	h := dim(root, "Height")
	l := dim(root, "Length")
	volume := w * h * l
	palette, _ := root["Palette"].(map[string]any)
	blockData, _ := root["BlockData"].([]byte)

	fmt.Fprintf(out, "checking %s\n", path)
	fmt.Fprintf(out, "version=%d data_version=%d\n", version, dataVersion)
	fmt.Fprintf(out, "dimensions: %d x %d x %d (volume %d)\n", w, h, l, volume)
	fmt.Fprintf(out, "palette: %d entries, sample %v\n", len(palette), paletteSample(palette, 5))
	fmt.Fprintf(out, "blockdata: %d bytes (expected %d)\n", len(blockData), 2*volume)

	check(version == 2, "version = %d, want 2", version)
	check(w > 0 && h > 0 && l > 0, "non-positive dimension %dx%dx%d", w, h, l)
	check(len(palette) > 0, "empty palette")
	check(len(blockData) == 2*volume, "blockdata is %d bytes, want 2*%d", len(blockData), volume)

	if len(blockData) == 2*volume && volume > 0 {
		minIdx, maxIdx := int(^uint(0)>>1), -1
		for i := 0; i < volume; i++ {
			n := int(blockData[2*i]) | int(blockData[2*i+1])<<8
			if n < minIdx {
				minIdx = n
			}
			if n > maxIdx {
				maxIdx = n
			}
		}
		fmt.Fprintf(out, "palette index range: [%d, %d] of %d entries\n", minIdx, maxIdx, len(palette))
		check(minIdx >= 0 && maxIdx < len(palette), "blockdata index range [%d, %d] outside palette of %d", minIdx, maxIdx, len(palette))

		airKey, airID := airEntry(palette)
		check(airKey != "", "no air entry in the palette")
		if airKey != "" {
			if airID != 0 {
				fmt.Fprintf(out, "warning: %s has palette index %d, loaders expect 0\n", airKey, airID)
			}
			filled := 0
			for i := 0; i < volume; i++ {
				if int(blockData[2*i])|int(blockData[2*i+1])<<8 != airID {
					filled++
				}
			}
			fmt.Fprintf(out, "filled voxels: %d / %d\n", filled, volume)
		}
	}

	return failures, nil
}

func dim(root map[string]any, key string) int {
	v, _ := root[key].(int16)
	return int(v)
}

// paletteSample returns up to n palette names ordered by their index.
func paletteSample(palette map[string]any, n int) []string {
	type entry struct {
		name string
		idx  int32
	}
	entries := make([]entry, 0, len(palette))
	for name, v := range palette {
		idx, _ := v.(int32)
		entries = append(entries, entry{name, idx})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })
	out := make([]string, 0, n)
	for _, e := range entries {
		if len(out) == n {
			break
		}
		out = append(out, e.name)
	}
	return out
}

func airEntry(palette map[string]any) (string, int) {
	for name, v := range palette {
		if strings.HasSuffix(name, ":air") {
			idx, _ := v.(int32)
			return name, int(idx)
		}
	}
	return "", -1
}
