package shard

// InvalidOffset is the all-ones sentinel legacy index files use to mark a
// slot that carries no data.
const InvalidOffset = 0xFFFFFFFF

// Entry locates one addressable record inside an archive. Entries are built
// once at load time and never mutated afterwards; the producing reader owns
// the slice they live in.
type Entry struct {
	Offset        int64
	Length        int32 // stored length on disk
	DecodedLength int32 // length after decompression (equals Length when stored raw)
	Extra         int32 // per-format auxiliary field (raster size hint, palette hint)
	Compressed    bool
}

// Valid reports whether the entry may be materialized. Positional index
// files keep invalid slots in place because the position is the identifier,
// so consumers must check before reading.
func (e Entry) Valid() bool {
	return e.Offset != InvalidOffset && e.Offset >= 0 && e.Length > 0
}
