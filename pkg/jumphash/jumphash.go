// Package jumphash assigns an n-gram (or a QueryId) to a shard via Lamping
// and Veach's jump consistent hash, seeded by a stable 64-bit xxhash digest
// of the key.
package jumphash

import (
	"encoding/binary"

	"github.com/OneOfOne/xxhash"
)

// hashSeed is the fixed xxhash seed for digesting opaque byte keys: any
// fixed seed works as long as builder and reader agree on it.
const hashSeed = 0

// KeyDigest returns a stable 64-bit hash of an arbitrary byte key.
func KeyDigest(key []byte) uint64 {
	return xxhash.Checksum64S(key, hashSeed)
}

// Shard returns the jump consistent hash of key64 into [0, nrShards).
// nrShards must be > 0.
func Shard(key64 uint64, nrShards int) int {
	var b, j int64

	for j < int64(nrShards) {
		b = j
		key64 = key64*2862933555777941757 + 1
		j = int64(float64(b+1) * (float64(int64(1)<<31) / float64((key64>>33)+1)))
	}
	return int(b)
}

// ShardString hashes an n-gram string and returns its owning shard.
func ShardString(ngram string, nrShards int) int {
	return Shard(KeyDigest([]byte(ngram)), nrShards)
}

// ShardQueryID hashes a QueryId the same way the builder does when
// deciding which shard's posting file a query belongs in.
func ShardQueryID(qid uint64, nrShards int) int {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], qid)
	return Shard(KeyDigest(buf[:]), nrShards)
}
