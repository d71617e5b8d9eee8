// Package world probes a data directory for the fixed candidate asset
// files, opens the ones that exist and serves decoded content through one
// facade. A missing optional file permanently disables that content type
// for the load; only the mandatory property table escalates to a hard
// failure, because no meaningful world state exists without it.
package world

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/skyline93/shard/internal/archive"
	"github.com/skyline93/shard/internal/art"
	"github.com/skyline93/shard/internal/shard"
	"github.com/skyline93/shard/internal/texture"
	"github.com/skyline93/shard/internal/tiledata"
	"github.com/skyline93/shard/internal/worldmap"
)

// Package entry name templates the shipped packages were hashed under.
const (
	artPattern = "build/artlegacymul/%08d.tga"
	mapPattern = "build/map%dlegacymul/%%08d.dat"

	// artCapacity covers the land slots plus the full item range.
	artCapacity = art.StaticOffset + 0x10000
)

// World owns every loader for one data directory.
type World struct {
	mu  sync.Mutex
	cfg Config

	tiles *tiledata.Table
	hues  []shard.Hue

	art  *art.Loader
	tex  *texture.Loader
	maps map[int]*worldmap.Map
}

// Open loads a world from cfg. Independent archives are opened in
// parallel; their decode paths stay synchronous afterwards.
func Open(cfg Config) (*World, error) {
	w := &World{cfg: cfg, maps: make(map[int]*worldmap.Map)}
	if err := w.load(); err != nil {
		w.closeLocked()
		return nil, err
	}
	return w, nil
}

func (w *World) load() error {
	// The property table is mandatory and decoded up front: consumers
	// need it before any graphics lookup makes sense.
	p, err := os.ReadFile(w.path("tiledata.mul"))
	if err != nil {
		return errors.Wrap(err, "mandatory property table")
	}
	w.tiles, err = tiledata.Load(p)
	if err != nil {
		return err
	}

	if p, err := os.ReadFile(w.path("hues.mul")); err == nil {
		if hues, err := shard.LoadHues(p); err == nil {
			w.hues = hues
		} else {
			log.Warnf("hue table unusable: %v", err)
		}
	} else {
		log.Infof("no hue table, substitution disabled")
	}

	var mu sync.Mutex
	g := errgroup.Group{}

	g.Go(func() error {
		reader, err := w.openGraphics()
		if err != nil {
			return err
		}
		if reader != nil {
			mu.Lock()
			w.art = art.NewLoader(reader, w.cfg.ArtCacheSize)
			mu.Unlock()
		}
		return nil
	})

	g.Go(func() error {
		data, index := w.path("texmaps.mul"), w.path("texidx.mul")
		if !exists(data) || !exists(index) {
			log.Infof("no stretched-texture pair, textures disabled")
			return nil
		}
		reader, err := archive.OpenMul(data, index)
		if err != nil {
			return err
		}
		mu.Lock()
		w.tex = texture.NewLoader(reader, w.cfg.TextureCacheSize)
		mu.Unlock()
		return nil
	})

	for _, mc := range w.cfg.Maps {
		mc := mc
		g.Go(func() error {
			m, err := w.openMap(mc)
			if err != nil {
				return err
			}
			if m != nil {
				mu.Lock()
				w.maps[mc.Index] = m
				mu.Unlock()
			}
			return nil
		})
	}

	return g.Wait()
}

// openGraphics prefers the packaged graphics archive and falls back to the
// twin-file pair. Neither existing disables tile graphics.
func (w *World) openGraphics() (archive.Reader, error) {
	if pkg := w.path("artLegacyMUL.uop"); exists(pkg) {
		return archive.OpenUop(pkg, artPattern, artCapacity)
	}
	data, index := w.path("art.mul"), w.path("artidx.mul")
	if exists(data) && exists(index) {
		return archive.OpenMul(data, index)
	}
	log.Infof("no graphics archive, tile art disabled")
	return nil, nil
}

func (w *World) openMap(mc MapConfig) (*worldmap.Map, error) {
	opts := worldmap.Options{
		Width:          mc.Width,
		Height:         mc.Height,
		BlockCacheSize: w.cfg.BlockCacheSize,
	}

	// Statics are optional per map; both halves of the pair must exist.
	idx := w.path(fmt.Sprintf("staidx%d.mul", mc.Index))
	data := w.path(fmt.Sprintf("statics%d.mul", mc.Index))
	if exists(idx) && exists(data) {
		opts.StaticsIndexPath = idx
		opts.StaticsDataPath = data
	}

	if pkg := w.path(fmt.Sprintf("map%dLegacyMUL.uop", mc.Index)); exists(pkg) {
		return worldmap.OpenUop(pkg, fmt.Sprintf(mapPattern, mc.Index), opts)
	}
	if flat := w.path(fmt.Sprintf("map%d.mul", mc.Index)); exists(flat) {
		return worldmap.OpenMul(flat, opts)
	}
	log.Infof("map %d not present", mc.Index)
	return nil, nil
}

func (w *World) path(name string) string {
	return filepath.Join(w.cfg.DataDir, name)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Tiles returns the property table.
func (w *World) Tiles() *tiledata.Table {
	return w.tiles
}

// LandData returns the property record of a land tile.
func (w *World) LandData(id int) (tiledata.Land, bool) {
	return w.tiles.Land(id)
}

// StaticData returns the property record of a static tile.
func (w *World) StaticData(id int) (tiledata.Static, bool) {
	return w.tiles.Static(id)
}

// Hue returns a substitution palette by identifier, 1-based as consumers
// address them; 0 and out-of-range identifiers mean "no hue".
func (w *World) Hue(id int) (*shard.Hue, bool) {
	if id <= 0 || id > len(w.hues) {
		return nil, false
	}
	return &w.hues[id-1], true
}

// Land returns the decoded land tile raster.
func (w *World) Land(id int) (*shard.Raster, error) {
	if w.art == nil {
		return nil, errors.Wrap(shard.ErrAbsent, "tile art disabled")
	}
	return w.art.Land(id)
}

// Static returns the decoded static/item tile raster.
func (w *World) Static(id int) (*shard.Raster, error) {
	if w.art == nil {
		return nil, errors.Wrap(shard.ErrAbsent, "tile art disabled")
	}
	return w.art.Static(id)
}

// Texture returns the stretched texture for a texture index.
func (w *World) Texture(index int) (*shard.Raster, error) {
	if w.tex == nil {
		return nil, errors.Wrap(shard.ErrAbsent, "textures disabled")
	}
	return w.tex.Texture(index)
}

// LandTexture resolves a land tile's texture through its property record.
// The texture index is a separate numbering space; it propagates here
// unchanged.
func (w *World) LandTexture(id int) (*shard.Raster, error) {
	l, ok := w.tiles.Land(id)
	if !ok || l.TexID == 0 {
		return nil, errors.Wrapf(shard.ErrAbsent, "land tile %d has no texture", id)
	}
	return w.Texture(int(l.TexID))
}

// Map returns an opened terrain map by index.
func (w *World) Map(index int) (*worldmap.Map, bool) {
	m, ok := w.maps[index]
	return m, ok
}

// Block returns the decoded terrain block of a map.
func (w *World) Block(mapIndex, bx, by int) (*worldmap.Block, error) {
	m, ok := w.maps[mapIndex]
	if !ok {
		return nil, errors.Wrapf(shard.ErrAbsent, "map %d not loaded", mapIndex)
	}
	return m.Block(bx, by)
}

// BlockStatics returns the placed objects of a terrain block.
func (w *World) BlockStatics(mapIndex, bx, by int) ([]worldmap.StaticItem, error) {
	m, ok := w.maps[mapIndex]
	if !ok {
		return nil, errors.Wrapf(shard.ErrAbsent, "map %d not loaded", mapIndex)
	}
	return m.Statics(bx, by)
}

// Reload closes every handle and cache, then re-probes under the new
// configuration. No cache entry referencing an old handle survives.
func (w *World) Reload(cfg Config) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closeLocked()
	w.cfg = cfg
	w.maps = make(map[int]*worldmap.Map)
	if err := w.load(); err != nil {
		w.closeLocked()
		return err
	}
	return nil
}

// Close releases everything. Safe to call more than once.
func (w *World) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeLocked()
	return nil
}

func (w *World) closeLocked() {
	if w.art != nil {
		if err := w.art.Close(); err != nil {
			log.Warnf("closing graphics archive: %v", err)
		}
		w.art = nil
	}
	if w.tex != nil {
		if err := w.tex.Close(); err != nil {
			log.Warnf("closing texture archive: %v", err)
		}
		w.tex = nil
	}
	for i, m := range w.maps {
		if err := m.Close(); err != nil {
			log.Warnf("closing map %d: %v", i, err)
		}
	}
	w.maps = nil
}
