// Package archive reads the two container generations the legacy asset
// distribution uses: indexed twin-file archives (a data file plus a
// fixed-record index file) and hash-indexed packages (one file with a
// chained directory of optionally compressed entries). Both expose the
// same by-index contract; the variant is chosen once at open time by
// probing candidate paths, never per call.
package archive

import (
	"github.com/skyline93/shard/internal/shard"
)

// Reader is the shared contract of both container generations.
type Reader interface {
	// Entry returns the location record for index, with ok=false when the
	// slot is out of range or marked invalid.
	Entry(index int) (shard.Entry, bool)

	// Read materializes the entry's bytes. Missing, invalid and
	// undecodable entries return shard.ErrAbsent; siblings are unaffected.
	Read(index int) ([]byte, error)

	// Count returns the number of addressable slots.
	Count() int

	Close() error
}
