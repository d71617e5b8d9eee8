// Package texture decodes the stretched terrain textures: flat square
// blocks of packed 16-bit pixels addressed by the texture index carried in
// the land property records, a numbering space separate from the tile
// identifier.
package texture

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/shard/internal/archive"
	"github.com/skyline93/shard/internal/cache"
	"github.com/skyline93/shard/internal/shard"
)

// DefaultCacheSize bounds the decoded texture cache.
const DefaultCacheSize = 256

// Loader decodes square textures on demand.
type Loader struct {
	reader archive.Reader
	cache  *cache.Bounded[int, *shard.Raster]
}

// NewLoader wraps an opened texture archive.
func NewLoader(reader archive.Reader, cacheSize int) *Loader {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Loader{
		reader: reader,
		cache:  cache.New[int, *shard.Raster](cacheSize, func(r *shard.Raster) { r.Release() }),
	}
}

// Texture returns the decoded square raster for a texture index, or
// shard.ErrAbsent. Textures come in two sides, 64 and 128; the side is
// taken from the index record's auxiliary field and re-derived from the
// stored length when the two disagree.
func (l *Loader) Texture(index int) (*shard.Raster, error) {
	if r, ok := l.cache.Get(index); ok {
		return r, nil
	}

	e, ok := l.reader.Entry(index)
	if !ok {
		return nil, errors.Wrapf(shard.ErrAbsent, "texture %d", index)
	}

	side := 128
	if e.Extra == 0 || e.Length == 64*64*2 {
		side = 64
	}
	if int(e.Length) != side*side*2 {
		side = int(math.Sqrt(float64(e.Length) / 2))
		if side != 64 && side != 128 {
			log.Warnf("texture %d: %d stored bytes fit no known side", index, e.Length)
			return nil, errors.Wrapf(shard.ErrAbsent, "texture %d", index)
		}
	}

	p, err := l.reader.Read(index)
	if err != nil {
		return nil, err
	}
	if len(p) < side*side*2 {
		return nil, errors.Wrapf(shard.ErrAbsent, "texture %d", index)
	}

	r := shard.NewRaster(side, side)
	for i := 0; i < side*side; i++ {
		r.Pix[i] = shard.Unpack(binary.LittleEndian.Uint16(p[i*2:]))
	}

	l.cache.Add(index, r)
	return r, nil
}

// Close drops the cache and releases the archive.
func (l *Loader) Close() error {
	l.cache.Clear()
	return l.reader.Close()
}
