package qpick

import "github.com/dreamware/qpick/pkg/sid"

// Results is a forward iterator over a scored id set, mirroring the
// original QpickResults type.
type Results struct {
	items []sid.Sid
	pos   int
}

// NewResults wraps an already-computed, already-ordered id slice.
func NewResults(items []sid.Sid) *Results {
	return &Results{items: items}
}

// Next returns the next scored id, or (Sid{}, false) once exhausted.
func (r *Results) Next() (sid.Sid, bool) {
	if r.pos >= len(r.items) {
		return sid.Sid{}, false
	}
	s := r.items[r.pos]
	r.pos++
	return s, true
}

// GetResults is the iterator-returning variant of Get.
func (e *Engine) GetResults(query string, k int) (*Results, error) {
	ids, err := e.Get(query, k)
	if err != nil {
		return nil, err
	}
	return NewResults(ids), nil
}

// NGetResults is the iterator-returning variant of NGet.
func (e *Engine) NGetResults(queries []string, k int) (*Results, error) {
	ids, err := e.NGet(queries, k)
	if err != nil {
		return nil, err
	}
	return NewResults(ids), nil
}
