// Package tiledata decodes the per-tile property file: one fixed land
// section followed by static records until the input runs out. Two on-disk
// layouts exist, classic (32-bit flag words) and extended (64-bit); the
// revision is detected from the total file length alone.
package tiledata

import (
	"encoding/binary"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/shard/internal/shard"
)

const (
	// Records come in runs of 32, each run prefixed by a 4-byte header
	// that carries no information for readers.
	groupLen    = 32
	groupHeader = 4

	// LandCount is fixed in both layouts: 512 groups of 32.
	LandCount  = 16384
	landGroups = LandCount / groupLen

	nameLen = 20

	classicLandStride    = 4 + 2 + nameLen  // 26
	extendedLandStride   = 8 + 2 + nameLen  // 30
	classicStaticStride  = 4 + 13 + nameLen // 37
	extendedStaticStride = 8 + 13 + nameLen // 41

	// extendedThreshold separates the two known revisions by total file
	// length. Only these two are handled; a third size fails the load
	// outright rather than guessing a stride.
	extendedThreshold = 3188736
)

// Land describes one terrain tile. TexID indexes the stretched-texture
// archive and is a numbering space of its own, unrelated to the tile
// identifier.
type Land struct {
	Flags uint64
	TexID uint16
	Name  string
}

// Static describes one placeable object tile.
type Static struct {
	Flags      uint64
	Weight     uint8
	Layer      uint8
	Count      int32
	AnimID     uint16
	Hue        uint16
	LightIndex uint16
	Height     uint8
	Name       string
}

// Table holds the decoded property records for the process lifetime.
type Table struct {
	Lands    []Land
	Statics  []Static
	Extended bool
}

// Load decodes the whole property file. The land section is exactly 512
// groups in either layout; static groups continue until the input is
// exhausted. A length that fits neither layout is a container failure.
func Load(p []byte) (*Table, error) {
	extended := len(p) >= extendedThreshold

	landStride, staticStride := classicLandStride, classicStaticStride
	if extended {
		landStride, staticStride = extendedLandStride, extendedStaticStride
	}
	landBytes := landGroups * (groupHeader + groupLen*landStride)
	staticGroupBytes := groupHeader + groupLen*staticStride

	if len(p) < landBytes {
		return nil, errors.Wrapf(shard.ErrMalformedContainer, "property file of %d bytes cannot hold the land section", len(p))
	}
	if (len(p)-landBytes)%staticGroupBytes != 0 {
		return nil, errors.Wrapf(shard.ErrMalformedContainer, "property file length %d matches no known layout", len(p))
	}

	t := &Table{
		Lands:    make([]Land, 0, LandCount),
		Extended: extended,
	}

	off := 0
	for g := 0; g < landGroups; g++ {
		off += groupHeader
		for i := 0; i < groupLen; i++ {
			var l Land
			if extended {
				l.Flags = binary.LittleEndian.Uint64(p[off:])
				off += 8
			} else {
				l.Flags = uint64(binary.LittleEndian.Uint32(p[off:]))
				off += 4
			}
			l.TexID = binary.LittleEndian.Uint16(p[off:])
			l.Name = shard.TrimName(p[off+2 : off+2+nameLen])
			off += 2 + nameLen
			t.Lands = append(t.Lands, l)
		}
	}

	staticGroups := (len(p) - landBytes) / staticGroupBytes
	t.Statics = make([]Static, 0, staticGroups*groupLen)
	for g := 0; g < staticGroups; g++ {
		off += groupHeader
		for i := 0; i < groupLen; i++ {
			var s Static
			if extended {
				s.Flags = binary.LittleEndian.Uint64(p[off:])
				off += 8
			} else {
				s.Flags = uint64(binary.LittleEndian.Uint32(p[off:]))
				off += 4
			}
			s.Weight = p[off]
			s.Layer = p[off+1]
			s.Count = int32(binary.LittleEndian.Uint32(p[off+2:]))
			s.AnimID = binary.LittleEndian.Uint16(p[off+6:])
			s.Hue = binary.LittleEndian.Uint16(p[off+8:])
			s.LightIndex = binary.LittleEndian.Uint16(p[off+10:])
			s.Height = p[off+12]
			s.Name = shard.TrimName(p[off+13 : off+13+nameLen])
			off += 13 + nameLen
			t.Statics = append(t.Statics, s)
		}
	}

	log.Debugf("property table: %d land, %d static records (extended=%v)", len(t.Lands), len(t.Statics), extended)
	return t, nil
}

// Land returns the record for a land tile identifier.
func (t *Table) Land(id int) (Land, bool) {
	if id < 0 || id >= len(t.Lands) {
		return Land{}, false
	}
	return t.Lands[id], true
}

// Static returns the record for a static tile identifier.
func (t *Table) Static(id int) (Static, bool) {
	if id < 0 || id >= len(t.Statics) {
		return Static{}, false
	}
	return t.Statics[id], true
}
