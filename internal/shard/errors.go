package shard

import "github.com/pkg/errors"

// ErrAbsent is returned when a lookup names an entry that does not exist,
// was marked invalid at load time, or failed to decode. It is an expected
// steady-state condition; callers degrade to their documented fallback
// instead of aborting.
var ErrAbsent = errors.New("entry absent")

// ErrMalformedContainer is returned when a whole archive fails to load:
// magic mismatch, an invalid chained table pointer, or a record count that
// cannot fit the file. Unlike ErrAbsent it affects every entry of the
// archive at once.
var ErrMalformedContainer = errors.New("malformed container")

// IsAbsent reports whether err denotes a missing or undecodable entry.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrAbsent)
}

// IsMalformed reports whether err denotes a whole-container failure.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedContainer)
}
