package archive

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"
)

// Inflate decompresses one block-compressed package entry. The payload
// starts with a 2-byte stored header ahead of the raw deflate stream; the
// stream must produce exactly expected bytes. Short input, a truncated
// stream or a corrupt dictionary all surface as an error that the caller
// maps to its missing-entry fallback.
func Inflate(p []byte, expected int) ([]byte, error) {
	if len(p) <= 2 {
		return nil, errors.Errorf("compressed entry of %d bytes is too short", len(p))
	}
	if expected < 0 {
		return nil, errors.Errorf("invalid decoded length %d", expected)
	}

	fr := flate.NewReader(bytes.NewReader(p[2:]))
	defer fr.Close()

	out := make([]byte, expected)
	if _, err := io.ReadFull(fr, out); err != nil {
		return nil, errors.Wrapf(err, "inflate %d -> %d bytes", len(p), expected)
	}
	return out, nil
}
