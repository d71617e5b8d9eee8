package worldmap

import (
	"github.com/pkg/errors"

	"github.com/skyline93/shard/internal/archive"
	"github.com/skyline93/shard/internal/backend"
	"github.com/skyline93/shard/internal/cache"
	"github.com/skyline93/shard/internal/shard"
)

// Options configures one map load.
type Options struct {
	// Width and Height are the map size in blocks.
	Width  int
	Height int

	// StaticsIndexPath and StaticsDataPath name the optional twin-file
	// pair holding the placed-object lists. Both empty means no statics.
	StaticsIndexPath string
	StaticsDataPath  string

	// BlockCacheSize bounds the decoded block cache; <= 0 selects the
	// default.
	BlockCacheSize int
}

// OpenMul opens a flat terrain file: a bare sequence of 196-byte blocks.
func OpenMul(path string, opts Options) (*Map, error) {
	src, err := backend.Open(path)
	if err != nil {
		return nil, err
	}
	return newMap(&mulBlocks{src: src}, opts)
}

// OpenUop opens a package-backed terrain file. pattern is the package's
// entry name template; each entry groups a fixed count of blocks.
func OpenUop(path, pattern string, opts Options) (*Map, error) {
	total := opts.Width * opts.Height
	entries := (total + blocksPerEntry - 1) / blocksPerEntry
	pkg, err := archive.OpenUop(path, pattern, entries)
	if err != nil {
		return nil, err
	}
	return newMap(&uopBlocks{
		pkg: pkg,
		// Package entries are large; a handful of decoded payloads covers
		// any spatially local access pattern.
		entries: cache.New[int, []byte](8, nil),
	}, opts)
}

func newMap(src blockSource, opts Options) (*Map, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		_ = src.close()
		return nil, errors.Wrapf(shard.ErrMalformedContainer, "map dimensions %dx%d", opts.Width, opts.Height)
	}

	m := &Map{
		source:      src,
		width:       opts.Width,
		height:      opts.Height,
		blocks:      cache.New[int, *Block](pick(opts.BlockCacheSize, DefaultBlockCacheSize), nil),
		staticLists: cache.New[int, []StaticItem](pick(opts.BlockCacheSize, DefaultBlockCacheSize), nil),
	}

	if opts.StaticsIndexPath != "" && opts.StaticsDataPath != "" {
		st, err := archive.OpenMul(opts.StaticsDataPath, opts.StaticsIndexPath)
		if err != nil {
			_ = src.close()
			return nil, err
		}
		m.statics = st
	}
	return m, nil
}

func pick(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// mulBlocks reads blocks straight out of a flat file.
type mulBlocks struct {
	src backend.Source
}

func (s *mulBlocks) readBlock(index int) ([]byte, error) {
	return backend.Section(s.src, int64(index)*blockSize, blockSize)
}

func (s *mulBlocks) close() error {
	return s.src.Close()
}

// uopBlocks reads blocks out of package entries holding blocksPerEntry
// blocks each.
type uopBlocks struct {
	pkg     *archive.Uop
	entries *cache.Bounded[int, []byte]
}

func (s *uopBlocks) readBlock(index int) ([]byte, error) {
	entry := index / blocksPerEntry
	within := (index % blocksPerEntry) * blockSize

	p, ok := s.entries.Get(entry)
	if !ok {
		var err error
		p, err = s.pkg.Read(entry)
		if err != nil {
			return nil, err
		}
		s.entries.Add(entry, p)
	}

	if within+blockSize > len(p) {
		return nil, errors.Wrapf(shard.ErrAbsent, "block %d past end of package entry %d", index, entry)
	}
	return p[within : within+blockSize], nil
}

func (s *uopBlocks) close() error {
	s.entries.Clear()
	return s.pkg.Close()
}
