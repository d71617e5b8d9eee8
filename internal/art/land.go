package art

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/skyline93/shard/internal/shard"
)

// Land tiles are fixed 44x44 diamonds. The top half grows two pixels per
// row, the bottom half shrinks back; only the pixels inside the diamond
// are stored, row-major, with no padding.
const (
	landSide = 44

	// landRawSize is the byte count of the stored diamond: 1012 packed
	// 16-bit pixels.
	landRawSize = 2024

	// landMaxHeader bounds the small fixed header a package-sourced entry
	// may carry ahead of the pixel data.
	landMaxHeader = 8
)

// landRowWidth returns the stored width of diamond row r.
func landRowWidth(r int) int {
	if r < landSide/2 {
		return (r + 1) * 2
	}
	return (landSide - r) * 2
}

// decodeLand decodes one land tile payload into a 44x44 raster. Pixels
// outside the diamond stay transparent.
func decodeLand(p []byte) (*shard.Raster, error) {
	if len(p) < landRawSize {
		return nil, errors.Errorf("land payload of %d bytes, want %d", len(p), landRawSize)
	}
	// Package-sourced entries may carry a small fixed header, detected by
	// comparing the payload length against the expected full byte count.
	if skip := len(p) - landRawSize; skip > 0 {
		if skip > landMaxHeader {
			return nil, errors.Errorf("land payload of %d bytes, want %d", len(p), landRawSize)
		}
		p = p[skip:]
	}

	r := shard.NewRaster(landSide, landSide)
	pos := 0
	for row := 0; row < landSide; row++ {
		width := landRowWidth(row)
		x := (landSide - width) / 2
		for i := 0; i < width; i++ {
			r.Set(x+i, row, shard.Unpack(binary.LittleEndian.Uint16(p[pos:])))
			pos += 2
		}
	}
	return r, nil
}
