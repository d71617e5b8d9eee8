package worldmap

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/skyline93/shard/internal/archive"
	"github.com/skyline93/shard/internal/shard"
)

const testMapPattern = "build/map0legacymul/%08d.dat"

// writeTerrainPackage builds a minimal terrain package holding the given
// entry payloads keyed by entry index.
func writeTerrainPackage(t *testing.T, entries map[int][]byte) string {
	t.Helper()

	const headerSize = 28
	const tableHeader = 12
	const recordSize = 34

	indices := make([]int, 0, len(entries))
	for i := range entries {
		indices = append(indices, i)
	}

	tableOff := int64(headerSize)
	dataOff := tableOff + tableHeader + int64(len(entries))*recordSize

	var out bytes.Buffer
	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[0:], 0x0050594D)
	binary.LittleEndian.PutUint32(header[4:], 5)
	binary.LittleEndian.PutUint64(header[12:], uint64(tableOff))
	binary.LittleEndian.PutUint32(header[20:], 100)
	binary.LittleEndian.PutUint32(header[24:], uint32(len(entries)))
	out.Write(header)

	th := make([]byte, tableHeader)
	binary.LittleEndian.PutUint32(th[0:], uint32(len(entries)))
	out.Write(th)

	off := dataOff
	var payloads bytes.Buffer
	for _, i := range indices {
		p := entries[i]
		rec := make([]byte, recordSize)
		binary.LittleEndian.PutUint64(rec[0:], uint64(off))
		binary.LittleEndian.PutUint32(rec[12:], uint32(len(p)))
		binary.LittleEndian.PutUint32(rec[16:], uint32(len(p)))
		binary.LittleEndian.PutUint64(rec[20:], archive.HashName(archive.EntryName(testMapPattern, i)))
		out.Write(rec)
		payloads.Write(p)
		off += int64(len(p))
	}
	out.Write(payloads.Bytes())

	path := filepath.Join(t.TempDir(), "map0LegacyMUL.uop")
	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		t.Fatalf("write package: %v", err)
	}
	return path
}

func TestPackageBackedBlocks(t *testing.T) {
	// A 1x4100-block map spans two package entries. Block (0,4098) lives
	// in entry 1 at the third block slot.
	entry1 := make([]byte, 3*blockSize)
	off := 2*blockSize + blockHeader
	for c := 0; c < BlockSide*BlockSide; c++ {
		binary.LittleEndian.PutUint16(entry1[off:], uint16(7000+c))
		off += 3
	}

	path := writeTerrainPackage(t, map[int][]byte{1: entry1})

	m, err := OpenUop(path, testMapPattern, Options{Width: 1, Height: 4100})
	if err != nil {
		t.Fatalf("open package map: %v", err)
	}
	defer m.Close()

	b, err := m.Block(0, 4098)
	if err != nil {
		t.Fatalf("block (0,4098): %v", err)
	}
	if got := b.Cell(0, 0); got.TileID != 7000 {
		t.Fatalf("got tile %d, want 7000", got.TileID)
	}

	// Blocks whose entry is missing from the package read as absent.
	if _, err := m.Block(0, 10); !shard.IsAbsent(err) {
		t.Fatalf("missing entry: got %v, want absent", err)
	}

	// Blocks past the end of a short entry read as absent too.
	if _, err := m.Block(0, 4099); !shard.IsAbsent(err) {
		t.Fatalf("past entry end: got %v, want absent", err)
	}
}
