package shard

import (
	"encoding/binary"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	hueEntrySize = 32*2 + 2 + 2 + 20
	hueGroupSize = 4 + 8*hueEntrySize
)

// Hue is one 32-color substitution palette plus its gray-ramp endpoints.
type Hue struct {
	Palette    [32]uint32
	TableStart uint16
	TableEnd   uint16
	Name       string
}

// Apply recolors a single pixel with this hue's palette.
func (h *Hue) Apply(c uint32, partial bool) uint32 {
	return ApplyHue(c, &h.Palette, partial)
}

// ApplyTo recolors a whole raster in place.
func (h *Hue) ApplyTo(r *Raster, partial bool) {
	for i, c := range r.Pix {
		r.Pix[i] = ApplyHue(c, &h.Palette, partial)
	}
}

// LoadHues decodes the hue table file: groups of eight 88-byte entries,
// each group prefixed by a 4-byte header. A trailing partial group is
// logged and dropped rather than failing the load.
func LoadHues(p []byte) ([]Hue, error) {
	if len(p) < hueGroupSize {
		return nil, errors.Wrap(ErrMalformedContainer, "hue table shorter than one group")
	}
	if rem := len(p) % hueGroupSize; rem != 0 {
		log.Warnf("hue table has %d trailing bytes, ignoring", rem)
	}

	groups := len(p) / hueGroupSize
	hues := make([]Hue, 0, groups*8)
	for g := 0; g < groups; g++ {
		off := g*hueGroupSize + 4
		for i := 0; i < 8; i++ {
			var h Hue
			for c := 0; c < 32; c++ {
				h.Palette[c] = Unpack(binary.LittleEndian.Uint16(p[off:]))
				off += 2
			}
			h.TableStart = binary.LittleEndian.Uint16(p[off:])
			h.TableEnd = binary.LittleEndian.Uint16(p[off+2:])
			h.Name = TrimName(p[off+4 : off+24])
			off += 24
			hues = append(hues, h)
		}
	}
	return hues, nil
}

// TrimName extracts a NUL-terminated name from a fixed-length slot,
// discarding whatever garbage follows the terminator.
func TrimName(p []byte) string {
	for i, b := range p {
		if b == 0 {
			return string(p[:i])
		}
	}
	return string(p)
}
