// Package worldmap decodes terrain blocks and their static-object lists.
//
// Terrain is addressed in fixed 8x8 blocks of cells. Within a block the
// cells are row-major, but the file ordering of the blocks themselves is
// column-major: blockIndex = blockX*heightInBlocks + blockY. Swapping the
// operands produces a superficially valid but scrambled world, so the
// arithmetic lives in exactly one place here.
package worldmap

import (
	"encoding/binary"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/shard/internal/archive"
	"github.com/skyline93/shard/internal/cache"
	"github.com/skyline93/shard/internal/shard"
)

const (
	// BlockSide is the cell edge of one terrain block.
	BlockSide = 8

	// blockSize is the on-disk footprint of one block: a 4-byte header
	// that carries nothing, then 64 cells of 3 bytes each.
	blockHeader = 4
	blockSize   = blockHeader + BlockSide*BlockSide*3

	// blocksPerEntry is the fixed grouping of package-backed terrain.
	blocksPerEntry = 4096

	staticRecordSize = 7

	// DefaultBlockCacheSize bounds the decoded block cache.
	DefaultBlockCacheSize = 512
)

// Cell is one terrain cell: a tile identifier and a signed elevation.
type Cell struct {
	TileID uint16
	Z      int8
}

// Block is one decoded 8x8 terrain block, row-major.
type Block [BlockSide * BlockSide]Cell

// Cell returns the cell at local coordinates within the block.
func (b *Block) Cell(x, y int) Cell {
	return b[y*BlockSide+x]
}

// StaticItem is one placed object inside a block.
type StaticItem struct {
	ItemID uint16
	X, Y   uint8 // local cell coordinates, 0..7
	Z      int8
	Hue    int16
}

// blockSource abstracts the two terrain storages: a flat file of blocks
// and a package grouping a fixed count of blocks per entry.
type blockSource interface {
	readBlock(index int) ([]byte, error)
	close() error
}

// Map decodes one terrain file, optionally paired with a static-object
// index/data pair.
type Map struct {
	source  blockSource
	statics *archive.Mul // nil when the map ships without statics

	width  int // in blocks
	height int

	blocks      *cache.Bounded[int, *Block]
	staticLists *cache.Bounded[int, []StaticItem]
}

// Dimensions returns the map size in blocks.
func (m *Map) Dimensions() (width, height int) {
	return m.width, m.height
}

// BlockIndex converts block coordinates into the column-major file index.
func (m *Map) BlockIndex(bx, by int) (int, bool) {
	if bx < 0 || by < 0 || bx >= m.width || by >= m.height {
		return 0, false
	}
	return bx*m.height + by, true
}

// Block returns the decoded terrain block at block coordinates, or
// shard.ErrAbsent when the coordinates fall outside the map or the block
// cannot be read.
func (m *Map) Block(bx, by int) (*Block, error) {
	index, ok := m.BlockIndex(bx, by)
	if !ok {
		return nil, errors.Wrapf(shard.ErrAbsent, "block (%d,%d) outside %dx%d map", bx, by, m.width, m.height)
	}
	if b, ok := m.blocks.Get(index); ok {
		return b, nil
	}

	p, err := m.source.readBlock(index)
	if err != nil {
		log.Warnf("terrain block %d unreadable: %v", index, err)
		return nil, errors.Wrapf(shard.ErrAbsent, "terrain block %d", index)
	}

	b := decodeBlock(p)
	m.blocks.Add(index, b)
	return b, nil
}

// decodeBlock decodes one 196-byte block payload.
func decodeBlock(p []byte) *Block {
	var b Block
	off := blockHeader
	for i := range b {
		b[i] = Cell{
			TileID: binary.LittleEndian.Uint16(p[off:]),
			Z:      int8(p[off+2]),
		}
		off += 3
	}
	return &b
}

// Statics returns the placed objects of a block. A block without statics
// yields an empty list, not an error; maps shipping without a statics pair
// always yield empty lists.
func (m *Map) Statics(bx, by int) ([]StaticItem, error) {
	index, ok := m.BlockIndex(bx, by)
	if !ok {
		return nil, errors.Wrapf(shard.ErrAbsent, "block (%d,%d) outside %dx%d map", bx, by, m.width, m.height)
	}
	if m.statics == nil {
		return nil, nil
	}
	if list, ok := m.staticLists.Get(index); ok {
		return list, nil
	}

	p, err := m.statics.Read(index)
	if err != nil {
		if shard.IsAbsent(err) {
			// The index sentinel and zero-length slots mean "no objects
			// here", an ordinary state for most of the world.
			return nil, nil
		}
		return nil, err
	}

	count := len(p) / staticRecordSize
	list := make([]StaticItem, 0, count)
	for i := 0; i < count; i++ {
		rec := p[i*staticRecordSize:]
		list = append(list, StaticItem{
			ItemID: binary.LittleEndian.Uint16(rec),
			// Stored local coordinates use only the low three bits;
			// damaged content carries garbage in the rest.
			X:   rec[2] & 0x07,
			Y:   rec[3] & 0x07,
			Z:   int8(rec[4]),
			Hue: int16(binary.LittleEndian.Uint16(rec[5:])),
		})
	}

	m.staticLists.Add(index, list)
	return list, nil
}

// Close drops the caches and releases every handle the map owns.
func (m *Map) Close() error {
	m.blocks.Clear()
	m.staticLists.Clear()
	err := m.source.close()
	if m.statics != nil {
		if cerr := m.statics.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
