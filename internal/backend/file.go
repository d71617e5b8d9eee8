package backend

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Source is the seek+read byte source archives are decoded from. A Source
// is opened once when the owning archive loads, held for the archive's
// lifetime and closed exactly once at teardown.
type Source interface {
	io.ReaderAt
	Size() int64
	Close() error
}

// File is a Source backed by one file handle. Seek and read form a single
// critical section guarded per instance, so several logical callers may
// decode from the same archive while independent archives proceed in
// parallel.
type File struct {
	mu   sync.Mutex
	f    *os.File
	size int64
	path string
}

// Open opens path and stats it once. A missing file is reported as-is so
// callers can distinguish "content type permanently disabled" from a real
// failure.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "Stat(%v)", path)
	}

	log.Debugf("opened %v (%d bytes)", path, fi.Size())
	return &File{f: f, size: fi.Size(), path: path}, nil
}

// ReadAt fills p from the given offset, holding the file's critical
// section for the whole seek+read pair.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.f == nil {
		return 0, errors.Errorf("ReadAt(%v): source closed", f.path)
	}
	if _, err := f.f.Seek(off, io.SeekStart); err != nil {
		return 0, errors.Wrapf(err, "Seek(%v)", f.path)
	}
	n, err := io.ReadFull(f.f, p)
	if err != nil {
		return n, errors.Wrapf(err, "ReadFull(%v)", f.path)
	}
	return n, nil
}

// Size returns the file length captured at open time.
func (f *File) Size() int64 {
	return f.size
}

// Path returns the path the source was opened from.
func (f *File) Path() string {
	return f.path
}

// Close releases the handle. Further reads fail; closing twice is a no-op.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.f == nil {
		return nil
	}
	err := f.f.Close()
	f.f = nil
	return err
}

// Section reads length bytes starting at off into a fresh buffer.
func Section(src Source, off, length int64) ([]byte, error) {
	if off < 0 || length < 0 || off+length > src.Size() {
		return nil, errors.Errorf("section [%d:+%d] outside source of %d bytes", off, length, src.Size())
	}
	p := make([]byte, length)
	if _, err := src.ReadAt(p, off); err != nil {
		return nil, err
	}
	return p, nil
}

// ReadAll returns the whole source in memory. Used for the small fixed
// metadata files that are decoded in one pass.
func ReadAll(src Source) ([]byte, error) {
	return Section(src, 0, src.Size())
}
