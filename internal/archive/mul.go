package archive

import (
	"encoding/binary"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/shard/internal/backend"
	"github.com/skyline93/shard/internal/shard"
)

// mulIndexRecordSize is the fixed stride of the index file: offset, length
// and an auxiliary field, each a little-endian int32.
const mulIndexRecordSize = 12

// Mul reads an indexed twin-file archive. The positional index into the
// index file is the tile/item identifier, so invalid slots stay in place
// carrying an invalid marker instead of being compacted away.
type Mul struct {
	data    backend.Source
	entries []shard.Entry
}

// OpenMul opens the data/index pair and decodes the whole index eagerly.
// The entry table is immutable afterwards.
func OpenMul(dataPath, indexPath string) (*Mul, error) {
	idx, err := backend.Open(indexPath)
	if err != nil {
		return nil, err
	}
	raw, err := backend.ReadAll(idx)
	cerr := idx.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "read index %v", indexPath)
	}
	if cerr != nil {
		return nil, cerr
	}

	data, err := backend.Open(dataPath)
	if err != nil {
		return nil, err
	}

	m := &Mul{
		data:    data,
		entries: parseMulIndex(raw),
	}
	log.Debugf("twin-file archive %v: %d slots", dataPath, len(m.entries))
	return m, nil
}

// parseMulIndex decodes the fixed records. Slots whose offset is the
// all-ones sentinel or whose length is not positive are kept but marked
// invalid.
func parseMulIndex(raw []byte) []shard.Entry {
	count := len(raw) / mulIndexRecordSize
	entries := make([]shard.Entry, count)
	for i := 0; i < count; i++ {
		rec := raw[i*mulIndexRecordSize:]
		offset := binary.LittleEndian.Uint32(rec)
		length := int32(binary.LittleEndian.Uint32(rec[4:]))
		extra := int32(binary.LittleEndian.Uint32(rec[8:]))

		e := shard.Entry{Extra: extra}
		if offset != shard.InvalidOffset && length > 0 {
			e.Offset = int64(offset)
			e.Length = length
			e.DecodedLength = length
		} else {
			e.Offset = shard.InvalidOffset
		}
		entries[i] = e
	}
	return entries
}

// Entry returns the location record for index.
func (m *Mul) Entry(index int) (shard.Entry, bool) {
	if index < 0 || index >= len(m.entries) {
		return shard.Entry{}, false
	}
	e := m.entries[index]
	return e, e.Valid()
}

// Read seeks and reads one entry's bytes. Out-of-range and invalid slots
// return shard.ErrAbsent, never an out-of-bounds failure.
func (m *Mul) Read(index int) ([]byte, error) {
	e, ok := m.Entry(index)
	if !ok {
		return nil, errors.Wrapf(shard.ErrAbsent, "slot %d", index)
	}
	p, err := backend.Section(m.data, e.Offset, int64(e.Length))
	if err != nil {
		log.Warnf("twin-file slot %d unreadable: %v", index, err)
		return nil, errors.Wrapf(shard.ErrAbsent, "slot %d: %v", index, err)
	}
	return p, nil
}

// Count returns the number of slots in the index file.
func (m *Mul) Count() int {
	return len(m.entries)
}

// Close releases the data handle.
func (m *Mul) Close() error {
	return m.data.Close()
}
