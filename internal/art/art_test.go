package art

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/skyline93/shard/internal/archive"
	"github.com/skyline93/shard/internal/shard"
)

// writeArtArchive builds a twin-file graphics archive holding one land
// tile at slot 3 and one static tile at the offset slot for item 7.
func writeArtArchive(t *testing.T) *Loader {
	t.Helper()
	dir := t.TempDir()

	land := buildLandPayload(0)
	static := buildStaticPayload(4, 2, [][]run{
		{{skip: 1, colors: []uint16{0x7C00, 0x03E0}}},
		{{skip: 1, colors: []uint16{0x001F, 0x7FFF}}},
	})
	data := append(append([]byte{}, land...), static...)

	slots := StaticOffset + 8
	idx := make([]byte, slots*12)
	for i := 0; i < slots; i++ {
		binary.LittleEndian.PutUint32(idx[i*12:], shard.InvalidOffset)
	}
	binary.LittleEndian.PutUint32(idx[3*12:], 0)
	binary.LittleEndian.PutUint32(idx[3*12+4:], uint32(len(land)))
	staticSlot := StaticOffset + 7
	binary.LittleEndian.PutUint32(idx[staticSlot*12:], uint32(len(land)))
	binary.LittleEndian.PutUint32(idx[staticSlot*12+4:], uint32(len(static)))

	dataPath := filepath.Join(dir, "art.mul")
	indexPath := filepath.Join(dir, "artidx.mul")
	if err := os.WriteFile(dataPath, data, 0644); err != nil {
		t.Fatalf("write data file: %v", err)
	}
	if err := os.WriteFile(indexPath, idx, 0644); err != nil {
		t.Fatalf("write index file: %v", err)
	}

	m, err := archive.OpenMul(dataPath, indexPath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	l := NewLoader(m, 0)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLoaderLandAndStatic(t *testing.T) {
	l := writeArtArchive(t)

	land, err := l.Land(3)
	if err != nil {
		t.Fatalf("land 3: %v", err)
	}
	if land.Width != 44 || land.Height != 44 {
		t.Fatalf("land raster is %dx%d", land.Width, land.Height)
	}

	static, err := l.Static(7)
	if err != nil {
		t.Fatalf("static 7: %v", err)
	}
	if static.Width != 4 || static.Height != 2 {
		t.Fatalf("static raster is %dx%d", static.Width, static.Height)
	}
}

func TestLoaderCachesDecodedRasters(t *testing.T) {
	l := writeArtArchive(t)

	a, err := l.Land(3)
	if err != nil {
		t.Fatalf("land 3: %v", err)
	}
	b, err := l.Land(3)
	if err != nil {
		t.Fatalf("land 3 again: %v", err)
	}
	if a != b {
		t.Fatalf("second lookup decoded a fresh raster")
	}
}

func TestLoaderAbsentSlots(t *testing.T) {
	l := writeArtArchive(t)

	if _, err := l.Land(5); !shard.IsAbsent(err) {
		t.Fatalf("empty land slot: got %v, want absent", err)
	}
	if _, err := l.Static(6); !shard.IsAbsent(err) {
		t.Fatalf("empty static slot: got %v, want absent", err)
	}
	if _, err := l.Static(-2); !shard.IsAbsent(err) {
		t.Fatalf("negative static id: got %v, want absent", err)
	}
}

func TestLoaderLandIdentifierMasked(t *testing.T) {
	l := writeArtArchive(t)

	// Land identifiers wrap into the land slot range; the offset form of
	// slot 3 resolves to the same tile.
	a, err := l.Land(3)
	if err != nil {
		t.Fatalf("land 3: %v", err)
	}
	b, err := l.Land(StaticOffset + 3)
	if err != nil {
		t.Fatalf("masked land id: %v", err)
	}
	if a != b {
		t.Fatalf("masked identifier decoded a different tile")
	}
}
