package art

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/skyline93/shard/internal/shard"
)

const (
	staticHeaderSize = 8

	// staticMaxSide rejects dimensions no shipped content reaches; larger
	// values mean the header was read from garbage.
	staticMaxSide = 1024
)

// decodeStatic decodes one run-length-compressed static/item tile. The
// payload opens with {flags, width, height}, followed by a per-row table
// of u16 offsets in 2-byte units relative to the end of the table. Each
// row is a walk of {skip, length} run records terminated by an all-zero
// pair. Malformed run data is truncated at the row boundary; the decoder
// never writes outside the declared dimensions.
func decodeStatic(p []byte) (*shard.Raster, error) {
	if len(p) < staticHeaderSize {
		return nil, errors.Errorf("static payload of %d bytes is shorter than its header", len(p))
	}

	width := int(binary.LittleEndian.Uint16(p[4:]))
	height := int(binary.LittleEndian.Uint16(p[6:]))
	if width <= 0 || height <= 0 || width > staticMaxSide || height > staticMaxSide {
		return nil, errors.Errorf("static payload declares %dx%d pixels", width, height)
	}

	tableEnd := staticHeaderSize + height*2
	if len(p) < tableEnd {
		return nil, errors.Errorf("static payload of %d bytes cannot hold its %d-row table", len(p), height)
	}

	r := shard.NewRaster(width, height)
	for y := 0; y < height; y++ {
		rowOff := int(binary.LittleEndian.Uint16(p[staticHeaderSize+y*2:]))
		pos := tableEnd + rowOff*2
		x := 0
		for {
			if pos+4 > len(p) {
				break
			}
			skip := int(binary.LittleEndian.Uint16(p[pos:]))
			run := int(binary.LittleEndian.Uint16(p[pos+2:]))
			pos += 4
			if skip == 0 && run == 0 {
				break
			}
			x += skip
			for i := 0; i < run; i++ {
				if pos+2 > len(p) {
					break
				}
				c := binary.LittleEndian.Uint16(p[pos:])
				pos += 2
				if c != 0 {
					// Nonzero decoded colors are forced opaque. Legacy
					// content depends on this, so it is preserved even
					// where the stored alpha bit disagrees.
					r.Set(x, y, shard.Unpack(c))
				}
				x++
			}
			if x >= width {
				break
			}
		}
	}
	return r, nil
}
