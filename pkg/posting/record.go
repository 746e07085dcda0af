// Package posting implements fixed-width posting-record decoding and
// random-access bucket reads from a shard's posting file.
package posting

// IDSize is the on-disk width of one posting record: pqid(4) + remainder(1)
// + tr(1) + f(1).
const IDSize = 7

// Record is one decoded posting: a shard-local query reference plus its
// term-relevance and frequency/quality weights.
type Record struct {
	PQID      uint32 // shard-local packed query id
	Remainder uint8  // low digits needed to recover the full QueryId
	TR        uint8  // term-relevance percent, 0..100
	F         uint8  // frequency/quality byte, 0..255
}

// QueryID reconstructs the external QueryId: qid = pqid*nrShards + remainder.
func (r Record) QueryID(nrShards int) uint64 {
	return uint64(r.PQID)*uint64(nrShards) + uint64(r.Remainder)
}

// Decode parses one IDSize-byte record. Endianness is little-endian for
// the pqid field, per the wire format.
func Decode(b []byte) Record {
	return Record{
		PQID:      uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24,
		Remainder: b[4],
		TR:        b[5],
		F:         b[6],
	}
}

// SplitQueryID decomposes a QueryId into the (pqid, remainder) pair stored
// in a posting record for the given shard count. pqid is a uint32, so only
// qids below 2^32*nrShards round-trip through Record.QueryID; for larger
// qids the quotient is truncated to its low 32 bits.
func SplitQueryID(qid uint64, nrShards int) (pqid uint32, remainder uint8) {
	n := uint64(nrShards)
	return uint32(qid / n), uint8(qid % n)
}
