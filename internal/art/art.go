// Package art decodes tile graphics from either container generation:
// fixed-size diamond rasters for land and run-length-compressed rasters
// for statics. Both share one archive, with static identifiers offset
// into the upper half of the slot space.
package art

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/shard/internal/archive"
	"github.com/skyline93/shard/internal/cache"
	"github.com/skyline93/shard/internal/shard"
)

// StaticOffset shifts an item identifier into the shared archive's slot
// space; slots below it hold land tiles.
const StaticOffset = 0x4000

// DefaultCacheSize bounds each of the two decode caches.
const DefaultCacheSize = 512

// Loader decodes land and static tile graphics on demand, caching decoded
// rasters per kind.
type Loader struct {
	reader  archive.Reader
	lands   *cache.Bounded[int, *shard.Raster]
	statics *cache.Bounded[int, *shard.Raster]
}

// NewLoader wraps an opened graphics archive. cacheSize <= 0 selects the
// default.
func NewLoader(reader archive.Reader, cacheSize int) *Loader {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	release := func(r *shard.Raster) { r.Release() }
	return &Loader{
		reader:  reader,
		lands:   cache.New[int, *shard.Raster](cacheSize, release),
		statics: cache.New[int, *shard.Raster](cacheSize, release),
	}
}

// Land returns the decoded 44x44 diamond raster for a land tile
// identifier, or shard.ErrAbsent.
func (l *Loader) Land(id int) (*shard.Raster, error) {
	id &= StaticOffset - 1
	if r, ok := l.lands.Get(id); ok {
		return r, nil
	}

	p, err := l.reader.Read(id)
	if err != nil {
		return nil, err
	}
	r, err := decodeLand(p)
	if err != nil {
		log.Warnf("land tile %d: %v", id, err)
		return nil, errors.Wrapf(shard.ErrAbsent, "land tile %d", id)
	}

	l.lands.Add(id, r)
	return r, nil
}

// Static returns the decoded raster for a static/item tile identifier, or
// shard.ErrAbsent.
func (l *Loader) Static(id int) (*shard.Raster, error) {
	if id < 0 {
		return nil, errors.Wrapf(shard.ErrAbsent, "static tile %d", id)
	}
	if r, ok := l.statics.Get(id); ok {
		return r, nil
	}

	p, err := l.reader.Read(id + StaticOffset)
	if err != nil {
		return nil, err
	}
	r, err := decodeStatic(p)
	if err != nil {
		log.Warnf("static tile %d: %v", id, err)
		return nil, errors.Wrapf(shard.ErrAbsent, "static tile %d", id)
	}

	l.statics.Add(id, r)
	return r, nil
}

// Close drops both caches and releases the archive.
func (l *Loader) Close() error {
	l.lands.Clear()
	l.statics.Clear()
	return l.reader.Close()
}
