package convert

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	"schemcraft.dev/internal/history"
	"schemcraft.dev/internal/nbt"
	"schemcraft.dev/internal/schem"
	"schemcraft.dev/internal/voxel"
)

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func writeGrid(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "grid.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write grid: %v", err)
	}
	return path
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := Defaults()
	cfg.Mesh = writeGrid(t, dir, `[[[[250, 250, 250]]]]`)
	cfg.Palette = filepath.Join("..", "..", "palettes", "wool_concrete.json")
	cfg.MinComponent = 1
	cfg.Out = filepath.Join(dir, "out.schem")
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	st, err := Run(cfg, discard(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st.Shape != (voxel.Shape{W: 1, H: 1, D: 1}) {
		t.Errorf("shape = %+v", st.Shape)
	}
	if st.Voxels != 1 || st.Pruned != 0 || st.Blocks != 1 || st.Distinct != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.Format != schem.FormatSponge {
		t.Errorf("format = %q, want sponge", st.Format)
	}
	if st.Bytes <= 0 {
		t.Errorf("bytes = %d, want > 0", st.Bytes)
	}

	raw, err := os.ReadFile(cfg.Out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	gz, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	_, root, err := nbt.Read(gz)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	palette, _ := root["Palette"].(map[string]any)
	if _, ok := palette["minecraft:white_wool"]; !ok {
		t.Errorf("palette %v, want white wool for a near-white voxel", palette)
	}
}

func TestRun_PruneCanEmptyTheModel(t *testing.T) {
	dir := t.TempDir()
	cfg := Defaults()
	// Two isolated voxels, both below the component threshold.
	cfg.Mesh = writeGrid(t, dir, `[[[1, 0, 0, 0, 1]]]`)
	cfg.Palette = filepath.Join("..", "..", "palettes", "wool_concrete.json")
	cfg.MinComponent = 2
	cfg.Out = filepath.Join(dir, "out.schem")
	cfg.Normalize()

	_, err := Run(cfg, discard(), nil)
	if !errors.Is(err, voxel.ErrEmptyResult) {
		t.Fatalf("err = %v, want ErrEmptyResult", err)
	}
}

func TestRun_RecordsHistory(t *testing.T) {
	dir := t.TempDir()
	idx, err := history.OpenSQLite(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}

	cfg := Defaults()
	cfg.Mesh = writeGrid(t, dir, `[[[[250, 250, 250], [10, 10, 10]]]]`)
	cfg.Palette = filepath.Join("..", "..", "palettes", "wool_concrete.json")
	cfg.MinComponent = 1
	cfg.Out = filepath.Join(dir, "out.litematic")
	cfg.Normalize()

	st, err := Run(cfg, discard(), idx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	idx, err = history.OpenSQLite(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx.Close()
	rows, err := idx.Recent(5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("%d history rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Path != cfg.Out || row.Format != "litematic" || row.Blocks != st.Blocks {
		t.Errorf("row = %+v", row)
	}
	if row.Width != 2 || row.Height != 1 || row.Depth != 1 {
		t.Errorf("dims = %dx%dx%d, want 2x1x1", row.Width, row.Height, row.Depth)
	}
	if row.PaletteDigest == "" || row.Source != cfg.Mesh {
		t.Errorf("row = %+v", row)
	}
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	cfg := Defaults()
	cfg.Mesh = filepath.Join(dir, "absent.json")
	cfg.MinComponent = 1
	cfg.Out = filepath.Join(dir, "out.schem")
	cfg.Normalize()

	if _, err := Run(cfg, discard(), nil); err == nil {
		t.Fatal("no error for a missing input file")
	}
}
