// Package pairing implements the Elegant (Szudzik) pairing function used
// to pack an (addr, len) posting-list locator into a single FST value.
package pairing

import "math"

// Pair bijectively maps (x, y) onto a single uint64: if x < y, the value is
// y*y + x, otherwise x*x + x + y. Pair is exact for all x, y occurring in a
// real index (addr bounded by shard-file-size/ID_SIZE, len bounded by the
// bucket size), since both stay well under 2^32 and the square fits in a
// uint64.
func Pair(x, y uint32) uint64 {
	xx, yy := uint64(x), uint64(y)
	if xx < yy {
		return yy*yy + xx
	}
	return xx*xx + xx + yy
}

// Unpair recovers (x, y) from a value produced by Pair.
func Unpair(v uint64) (x, y uint32) {
	s := uint64(math.Sqrt(float64(v)))
	// s never exceeds MaxUint32 for a Pair output; clamping keeps the
	// squares below from overflowing.
	if s > math.MaxUint32 {
		s = math.MaxUint32
	}
	// math.Sqrt can be off by one on the boundary; correct it.
	for s*s > v {
		s--
	}
	for s < math.MaxUint32 && (s+1)*(s+1) <= v {
		s++
	}
	if d := v - s*s; d < s {
		return uint32(d), uint32(s)
	} else {
		return uint32(s), uint32(d - s)
	}
}
