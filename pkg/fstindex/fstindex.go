// Package fstindex memory-maps finite state transducers used by the query
// engine: a shard's n-gram -> packed(addr,len) posting locator, and (via
// RawFST) a plain string -> uint64 map such as the global terms-relevance
// table. Mapping is done directly with golang.org/x/sys/unix (mmap +
// madvise) to advise the OS about the index's random access pattern, and
// the transducer itself is github.com/blevesearch/vellum, the Go FST
// library used by the Bleve search engine.
package fstindex

import (
	"os"

	"github.com/blevesearch/vellum"
	"golang.org/x/sys/unix"

	"github.com/dreamware/qpick/internal/cos"
	"github.com/dreamware/qpick/pkg/pairing"
)

// RawFST is a memory-mapped string -> uint64 transducer with no value
// interpretation of its own.
type RawFST struct {
	data []byte
	fst  *vellum.FST
}

// OpenRaw memory-maps path and loads it as an FST, advised MADV_RANDOM
// since both shard and terms-relevance lookups have no locality.
func OpenRaw(path string) (*RawFST, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cos.NewErrIndexOpen(path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, cos.NewErrIndexOpen(path, err)
	}
	size := st.Size()
	if size == 0 {
		return nil, cos.NewErrIndexOpen(path, errEmptyMap)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, cos.NewErrIndexOpen(path, err)
	}
	if err := unix.Madvise(data, unix.MADV_RANDOM); err != nil {
		_ = unix.Munmap(data)
		return nil, cos.NewErrIndexOpen(path, err)
	}

	fst, err := vellum.Load(data)
	if err != nil {
		_ = unix.Munmap(data)
		return nil, cos.NewErrIndexOpen(path, err)
	}

	return &RawFST{data: data, fst: fst}, nil
}

// Get looks up key and returns its raw uint64 value.
func (r *RawFST) Get(key string) (val uint64, ok bool, err error) {
	return r.fst.Get([]byte(key))
}

// Close unmaps the backing memory. The RawFST must not be used afterward.
func (r *RawFST) Close() error {
	if err := r.fst.Close(); err != nil {
		return err
	}
	return unix.Munmap(r.data)
}

// Index is a memory-mapped, read-only n-gram -> (addr, len) map for one
// shard, built on top of RawFST's packed uint64 values (§4.1 pair codec).
type Index struct {
	raw *RawFST
}

// Open memory-maps path and loads it as a packed n-gram index.
func Open(path string) (*Index, error) {
	raw, err := OpenRaw(path)
	if err != nil {
		return nil, err
	}
	return &Index{raw: raw}, nil
}

// Get looks up an n-gram and, if present, unpacks its (addr, len) value.
func (idx *Index) Get(ngram string) (addr uint64, length uint32, ok bool, err error) {
	v, exists, err := idx.raw.Get(ngram)
	if err != nil {
		return 0, 0, false, err
	}
	if !exists {
		return 0, 0, false, nil
	}
	a, l := pairing.Unpair(v)
	return uint64(a), l, true, nil
}

// Close unmaps the backing memory. The Index must not be used afterward.
func (idx *Index) Close() error {
	return idx.raw.Close()
}

// Iterate walks every n-gram in the index in key order, calling fn with
// its unpacked (addr, len). Used by the merger to re-read every shard's
// postings without going through a posting file it doesn't yet have a
// Reader bound to.
func (idx *Index) Iterate(fn func(ngram string, addr uint64, length uint32) error) error {
	it, err := idx.raw.fst.Iterator(nil, nil)
	if err == vellum.ErrIteratorDone {
		return nil
	}
	if err != nil {
		return err
	}
	for err == nil {
		key, val := it.Current()
		addr, length := pairing.Unpair(val)
		if ferr := fn(string(key), uint64(addr), length); ferr != nil {
			return ferr
		}
		err = it.Next()
	}
	if err != vellum.ErrIteratorDone {
		return err
	}
	return nil
}

type emptyMapErr string

func (e emptyMapErr) Error() string { return string(e) }

const errEmptyMap = emptyMapErr("map file is empty")
