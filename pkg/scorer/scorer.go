// Package scorer implements the per-shard TF-IDF-like scoring pass of §4.6:
// look up each n-gram in a shard's FST, accumulate per-document scores
// from its posting bucket, and compute the IDF normaliser for the shard.
package scorer

import (
	"math"

	"github.com/dreamware/qpick/pkg/fstindex"
	"github.com/dreamware/qpick/pkg/posting"
	"github.com/dreamware/qpick/pkg/sid"
)

// Shard bundles the per-shard resources the scorer needs to read.
type Shard struct {
	Index  *fstindex.Index
	Reader *posting.Reader
}

// Result is one shard's contribution to a query: its top-`count` scored
// ids and the normaliser to fold into the query-wide total.
type Result struct {
	IDs  []sid.Sid
	Norm float32
}

// Score runs §4.6 against one shard for the ngram->ntr weights routed to
// it. shardSize is Config.ShardSize (the IDF's N); nrShards is the index's
// total shard count, needed to reconstruct QueryId from (pqid, remainder).
func Score(sh Shard, ngrams map[string]float32, nrShards, shardSize, count int) (Result, error) {
	scores := make(map[uint64]float32)
	var norm float32
	n := float32(shardSize)

	for ngram, ntr := range ngrams {
		addr, length, ok, err := sh.Index.Get(ngram)
		var idf float32
		if err != nil {
			return Result{}, err
		}
		if ok && length > 0 {
			idf = log2(n / float32(length))
			for _, rec := range sh.Reader.ReadBucket(addr, length) {
				qid := rec.QueryID(nrShards)
				tr := float32(rec.TR) / 100.0
				weight := minF32(tr, ntr) * (1 + float32(rec.F)/1000.0)
				scores[qid] += weight * idf
			}
		} else {
			idf = log2(n)
		}
		norm += ntr * idf
	}

	ids := make([]sid.Sid, 0, len(scores))
	for id, sc := range scores {
		ids = append(ids, sid.Sid{ID: id, Sc: sc})
	}
	sid.SortDesc(ids)
	if count >= 0 && len(ids) > count {
		ids = ids[:count]
	}

	return Result{IDs: ids, Norm: norm}, nil
}

func log2(x float32) float32 {
	return float32(math.Log2(float64(x)))
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
