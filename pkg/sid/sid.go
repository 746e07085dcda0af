// Package sid defines the scored-id result type and its total ordering
// (§4.8), shared by the per-shard scorer and the query engine's merge step.
package sid

import (
	"math"
	"sort"
)

// Sid is one scored QueryId in a result set.
type Sid struct {
	ID uint64  `json:"id"`
	Sc float32 `json:"sc"`
}

// descLess reports whether a must sort strictly before b in the §4.8
// descending order: score descending, ties broken by id ascending, NaN
// scores sorting last (treated as less than every real number, including
// each other — ties among NaNs fall back to id ascending).
func descLess(a, b Sid) bool {
	aNaN, bNaN := math.IsNaN(float64(a.Sc)), math.IsNaN(float64(b.Sc))
	switch {
	case aNaN && bNaN:
		return a.ID < b.ID
	case aNaN:
		return false
	case bNaN:
		return true
	case a.Sc != b.Sc:
		return a.Sc > b.Sc
	default:
		return a.ID < b.ID
	}
}

// SortDesc sorts ids per the §4.8 ordering contract.
func SortDesc(ids []Sid) {
	sort.Slice(ids, func(i, j int) bool { return descLess(ids[i], ids[j]) })
}
