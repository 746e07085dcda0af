package posting

import (
	"io"
	"os"

	"github.com/dreamware/qpick/internal/nlog"
)

// Reader performs random-access reads of posting buckets from a single
// shard's posting file. It holds no mutable state past the *os.File and is
// safe for concurrent use by multiple goroutines (distinct ReadAt calls do
// not share a file cursor).
type Reader struct {
	f          *os.File
	bucketSize int
}

// NewReader wraps an already-open posting file. bucketSize is the maximum
// number of records the caller will ever ask to read at once (BUCKET_SIZE).
func NewReader(f *os.File, bucketSize int) *Reader {
	return &Reader{f: f, bucketSize: bucketSize}
}

// ReadBucket reads len records starting at record index addr: seek to the
// byte offset, read a full bucketSize*IDSize slot in one syscall sized for
// the worst case, and decode only the first len records out of it.
//
// On a short read it decodes whatever prefix was actually read. On any I/O
// error other than EOF it logs and returns an empty slice rather than
// failing the caller's whole query, per the "Lookup IO" error kind.
func (r *Reader) ReadBucket(addr uint64, length uint32) []Record {
	if length == 0 {
		return nil
	}

	buf := make([]byte, r.bucketSize*IDSize)
	n, err := r.f.ReadAt(buf, int64(addr)*IDSize)
	if err != nil && err != io.EOF {
		nlog.Warningf("posting: read bucket at addr=%d len=%d: %v (treating as empty)", addr, length, err)
		return nil
	}

	avail := n / IDSize
	want := int(length)
	if avail < want {
		want = avail
	}

	records := make([]Record, want)
	for i := 0; i < want; i++ {
		off := i * IDSize
		records[i] = Decode(buf[off : off+IDSize])
	}
	return records
}
