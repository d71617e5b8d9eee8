package world

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/skyline93/shard/internal/art"
	"github.com/skyline93/shard/internal/shard"
)

// writeDataDir assembles a minimal but complete data directory: property
// table, hue table, graphics twin-file pair, texture pair, one 2x3-block
// terrain file with a statics pair.
func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write := func(name string, p []byte) {
		if err := os.WriteFile(filepath.Join(dir, name), p, 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	// Classic property table: fixed land section plus one static group.
	tiledata := make([]byte, 512*(4+32*26)+4+32*37)
	binary.LittleEndian.PutUint16(tiledata[4+3*26+4:], 1) // land 3 -> texture 1
	write("tiledata.mul", tiledata)

	// One hue group.
	hues := make([]byte, 4+8*88)
	for c := 0; c < 32; c++ {
		binary.LittleEndian.PutUint16(hues[4+c*2:], uint16(c+1))
	}
	write("hues.mul", hues)

	// Graphics: land tile 3 and static tile 7.
	land := make([]byte, 2024)
	for i := 0; i < len(land); i += 2 {
		binary.LittleEndian.PutUint16(land[i:], 0x7C00)
	}
	static := []byte{
		0, 0, 0, 0, // flags
		2, 0, // width
		1, 0, // height
		0, 0, // row 0 at offset 0
		0, 0, 1, 0, // skip 0, run 1
		0x1F, 0x00, // one blue pixel
		0, 0, 0, 0, // terminator
	}
	artData := append(append([]byte{}, land...), static...)
	artIdx := make([]byte, (art.StaticOffset+8)*12)
	for i := 0; i < len(artIdx); i += 12 {
		binary.LittleEndian.PutUint32(artIdx[i:], shard.InvalidOffset)
	}
	binary.LittleEndian.PutUint32(artIdx[3*12:], 0)
	binary.LittleEndian.PutUint32(artIdx[3*12+4:], uint32(len(land)))
	slot := art.StaticOffset + 7
	binary.LittleEndian.PutUint32(artIdx[slot*12:], uint32(len(land)))
	binary.LittleEndian.PutUint32(artIdx[slot*12+4:], uint32(len(static)))
	write("art.mul", artData)
	write("artidx.mul", artIdx)

	// One 64-side texture at index 1.
	tex := make([]byte, 64*64*2)
	texIdx := make([]byte, 2*12)
	binary.LittleEndian.PutUint32(texIdx[0:], shard.InvalidOffset)
	binary.LittleEndian.PutUint32(texIdx[12:], 0)
	binary.LittleEndian.PutUint32(texIdx[16:], uint32(len(tex)))
	write("texmaps.mul", tex)
	write("texidx.mul", texIdx)

	// Terrain: 2x3 blocks, every cell tile 9, elevation 1.
	terrain := make([]byte, 6*196)
	for b := 0; b < 6; b++ {
		off := b*196 + 4
		for c := 0; c < 64; c++ {
			binary.LittleEndian.PutUint16(terrain[off:], 9)
			terrain[off+2] = 1
			off += 3
		}
	}
	write("map0.mul", terrain)

	// Statics: one record in block (1,2) = index 5.
	rec := []byte{0x34, 0x12, 2, 3, 0xFB, 0, 0}
	staIdx := make([]byte, 6*12)
	for i := 0; i < len(staIdx); i += 12 {
		binary.LittleEndian.PutUint32(staIdx[i:], shard.InvalidOffset)
	}
	binary.LittleEndian.PutUint32(staIdx[5*12:], 0)
	binary.LittleEndian.PutUint32(staIdx[5*12+4:], uint32(len(rec)))
	write("staidx0.mul", staIdx)
	write("statics0.mul", rec)

	return dir
}

func testConfig(dir string) Config {
	cfg := DefaultConfig(dir)
	cfg.Maps = []MapConfig{{Index: 0, Width: 2, Height: 3}}
	return cfg
}

func TestOpenWorld(t *testing.T) {
	w, err := Open(testConfig(writeDataDir(t)))
	if err != nil {
		t.Fatalf("open world: %v", err)
	}
	defer w.Close()

	if len(w.Tiles().Lands) != 16384 {
		t.Fatalf("property table holds %d land records", len(w.Tiles().Lands))
	}

	r, err := w.Land(3)
	if err != nil {
		t.Fatalf("land 3: %v", err)
	}
	if r.Width != 44 {
		t.Fatalf("land raster is %dx%d", r.Width, r.Height)
	}

	s, err := w.Static(7)
	if err != nil {
		t.Fatalf("static 7: %v", err)
	}
	if s.Width != 2 || s.Height != 1 {
		t.Fatalf("static raster is %dx%d", s.Width, s.Height)
	}

	if l, ok := w.LandData(3); !ok || l.TexID != 1 {
		t.Fatalf("land 3 property record: %+v, %v", l, ok)
	}
	if _, ok := w.StaticData(1 << 20); ok {
		t.Fatalf("out-of-range static property record resolved")
	}

	// Land 3's property record names texture 1; the index passes through
	// unchanged into the texture lookup.
	tex, err := w.LandTexture(3)
	if err != nil {
		t.Fatalf("land texture: %v", err)
	}
	if tex.Width != 64 {
		t.Fatalf("texture is %dx%d", tex.Width, tex.Height)
	}

	b, err := w.Block(0, 1, 2)
	if err != nil {
		t.Fatalf("block (1,2): %v", err)
	}
	if c := b.Cell(0, 0); c.TileID != 9 || c.Z != 1 {
		t.Fatalf("cell decoded as %+v", c)
	}

	list, err := w.BlockStatics(0, 1, 2)
	if err != nil {
		t.Fatalf("block statics: %v", err)
	}
	if len(list) != 1 || list[0].ItemID != 0x1234 || list[0].Z != -5 {
		t.Fatalf("statics decoded as %+v", list)
	}

	if _, ok := w.Hue(1); !ok {
		t.Fatalf("hue 1 missing")
	}
	if _, ok := w.Hue(0); ok {
		t.Fatalf("hue 0 should mean none")
	}
}

func TestWorldAbsentContent(t *testing.T) {
	w, err := Open(testConfig(writeDataDir(t)))
	if err != nil {
		t.Fatalf("open world: %v", err)
	}
	defer w.Close()

	if _, err := w.Land(5); !shard.IsAbsent(err) {
		t.Fatalf("empty land slot: got %v, want absent", err)
	}
	if _, err := w.Block(1, 0, 0); !shard.IsAbsent(err) {
		t.Fatalf("unloaded map: got %v, want absent", err)
	}
	if _, err := w.Block(0, 9, 9); !shard.IsAbsent(err) {
		t.Fatalf("block outside map: got %v, want absent", err)
	}
}

func TestWorldRequiresPropertyTable(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(testConfig(dir)); err == nil {
		t.Fatalf("world opened without the mandatory property table")
	}
}

func TestWorldMissingOptionalFiles(t *testing.T) {
	// Only the property table exists: every optional content type is
	// disabled, not fatal.
	dir := t.TempDir()
	tiledata := make([]byte, 512*(4+32*26))
	if err := os.WriteFile(filepath.Join(dir, "tiledata.mul"), tiledata, 0644); err != nil {
		t.Fatalf("write property table: %v", err)
	}

	w, err := Open(testConfig(dir))
	if err != nil {
		t.Fatalf("open world: %v", err)
	}
	defer w.Close()

	if _, err := w.Land(3); !shard.IsAbsent(err) {
		t.Fatalf("disabled art: got %v, want absent", err)
	}
	if _, err := w.Texture(1); !shard.IsAbsent(err) {
		t.Fatalf("disabled textures: got %v, want absent", err)
	}
	if _, err := w.Block(0, 0, 0); !shard.IsAbsent(err) {
		t.Fatalf("missing map: got %v, want absent", err)
	}
}

func TestWorldReload(t *testing.T) {
	dir := writeDataDir(t)
	w, err := Open(testConfig(dir))
	if err != nil {
		t.Fatalf("open world: %v", err)
	}
	defer w.Close()

	if _, err := w.Land(3); err != nil {
		t.Fatalf("land 3: %v", err)
	}

	// Reload into an empty directory with a bare property table: the old
	// handles and caches must be gone, so previously cached art reads as
	// absent now.
	empty := t.TempDir()
	tiledata := make([]byte, 512*(4+32*26))
	if err := os.WriteFile(filepath.Join(empty, "tiledata.mul"), tiledata, 0644); err != nil {
		t.Fatalf("write property table: %v", err)
	}
	if err := w.Reload(testConfig(empty)); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if _, err := w.Land(3); !shard.IsAbsent(err) {
		t.Fatalf("stale cache survived reload: %v", err)
	}
}
