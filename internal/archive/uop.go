package archive

import (
	"encoding/binary"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/shard/internal/backend"
	"github.com/skyline93/shard/internal/shard"
)

const (
	uopMagic       = 0x0050594D // "MYP\0"
	uopHeaderSize  = 28
	uopTableHeader = 12
	uopRecordSize  = 34

	// uopFlagCompressed marks an entry stored with block compression.
	uopFlagCompressed = 1
)

// Uop reads a hash-indexed package: a single file whose directory is a
// singly linked chain of tables, each record keyed by the 64-bit digest of
// a synthetic filename.
type Uop struct {
	src      backend.Source
	byHash   map[uint64]shard.Entry
	pattern  string
	capacity int
}

// OpenUop opens the package at path and walks the directory chain.
// pattern is the filename template entries were hashed under; capacity is
// the number of symbolic indices the caller will address. The hash index
// is built into a local map and only published once the walk succeeds, so
// a malformed chain never leaves a half-built directory behind.
func OpenUop(path, pattern string, capacity int) (*Uop, error) {
	src, err := backend.Open(path)
	if err != nil {
		return nil, err
	}

	byHash, err := walkDirectory(src)
	if err != nil {
		_ = src.Close()
		return nil, err
	}

	log.Debugf("package %v: %d entries", path, len(byHash))
	return &Uop{src: src, byHash: byHash, pattern: pattern, capacity: capacity}, nil
}

func walkDirectory(src backend.Source) (map[uint64]shard.Entry, error) {
	header, err := backend.Section(src, 0, uopHeaderSize)
	if err != nil {
		return nil, errors.Wrap(shard.ErrMalformedContainer, err.Error())
	}
	if binary.LittleEndian.Uint32(header) != uopMagic {
		return nil, errors.Wrap(shard.ErrMalformedContainer, "bad package magic")
	}

	// Version and timestamp are sanity-checked only; the structural
	// revision is carried entirely by the directory chain itself.
	version := binary.LittleEndian.Uint32(header[4:])
	if version > 5 {
		return nil, errors.Wrapf(shard.ErrMalformedContainer, "unsupported package version %d", version)
	}
	next := int64(binary.LittleEndian.Uint64(header[12:]))
	declared := int(binary.LittleEndian.Uint32(header[24:]))
	if declared < 0 || int64(declared)*uopRecordSize > src.Size() {
		return nil, errors.Wrapf(shard.ErrMalformedContainer, "declared entry count %d exceeds file size", declared)
	}

	// A self-referential or otherwise cyclic next-table pointer must not
	// loop forever; total records read are bounded by the declared count.
	byHash := make(map[uint64]shard.Entry, declared)
	seen := make(map[int64]bool)
	read := 0

	for next != 0 {
		if seen[next] || next < 0 || next >= src.Size() {
			return nil, errors.Wrapf(shard.ErrMalformedContainer, "invalid directory chain pointer %d", next)
		}
		seen[next] = true

		th, err := backend.Section(src, next, uopTableHeader)
		if err != nil {
			return nil, errors.Wrap(shard.ErrMalformedContainer, err.Error())
		}
		count := int(int32(binary.LittleEndian.Uint32(th)))
		if count < 0 || read+count > declared {
			return nil, errors.Wrapf(shard.ErrMalformedContainer, "directory table of %d records overruns declared count %d", count, declared)
		}

		records, err := backend.Section(src, next+uopTableHeader, int64(count)*uopRecordSize)
		if err != nil {
			return nil, errors.Wrap(shard.ErrMalformedContainer, err.Error())
		}
		for i := 0; i < count; i++ {
			rec := records[i*uopRecordSize:]
			offset := int64(binary.LittleEndian.Uint64(rec))
			if offset == 0 {
				continue
			}
			headerLength := int32(binary.LittleEndian.Uint32(rec[8:]))
			compressed := int32(binary.LittleEndian.Uint32(rec[12:]))
			decompressed := int32(binary.LittleEndian.Uint32(rec[16:]))
			hash := binary.LittleEndian.Uint64(rec[20:])
			flags := binary.LittleEndian.Uint16(rec[32:])

			byHash[hash] = shard.Entry{
				Offset:        offset + int64(headerLength),
				Length:        compressed,
				DecodedLength: decompressed,
				Compressed:    flags&uopFlagCompressed != 0,
			}
		}
		read += count

		next = int64(binary.LittleEndian.Uint64(th[4:]))
	}

	return byHash, nil
}

// Entry resolves a symbolic index through the filename pattern and hash.
func (u *Uop) Entry(index int) (shard.Entry, bool) {
	if index < 0 || index >= u.capacity {
		return shard.Entry{}, false
	}
	e, ok := u.byHash[HashName(EntryName(u.pattern, index))]
	if !ok || !e.Valid() {
		return shard.Entry{}, false
	}
	return e, true
}

// Read materializes one entry, decompressing when flagged. A failed
// decompression surfaces as shard.ErrAbsent; the rest of the package stays
// serviceable.
func (u *Uop) Read(index int) ([]byte, error) {
	e, ok := u.Entry(index)
	if !ok {
		return nil, errors.Wrapf(shard.ErrAbsent, "package entry %d", index)
	}

	p, err := backend.Section(u.src, e.Offset, int64(e.Length))
	if err != nil {
		log.Warnf("package entry %d unreadable: %v", index, err)
		return nil, errors.Wrapf(shard.ErrAbsent, "package entry %d: %v", index, err)
	}

	if e.Compressed {
		p, err = Inflate(p, int(e.DecodedLength))
		if err != nil {
			log.Warnf("package entry %d: %v", index, err)
			return nil, errors.Wrapf(shard.ErrAbsent, "package entry %d: decompression failed", index)
		}
	} else if int(e.DecodedLength) != len(p) {
		return nil, errors.Wrapf(shard.ErrAbsent, "package entry %d: stored %d bytes, expected %d", index, len(p), e.DecodedLength)
	}
	return p, nil
}

// Count returns the configured symbolic capacity.
func (u *Uop) Count() int {
	return u.capacity
}

// Close releases the package handle.
func (u *Uop) Close() error {
	return u.src.Close()
}
