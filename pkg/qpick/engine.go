// Package qpick implements the query engine of §4.7: parse a query into
// weighted n-grams, dispatch them to their owning shards, score each shard
// independently (pkg/scorer), merge and normalise the per-shard results,
// and return the top-k ids.
package qpick

import (
	"context"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dreamware/qpick/internal/nlog"
	"github.com/dreamware/qpick/pkg/config"
	"github.com/dreamware/qpick/pkg/fstindex"
	"github.com/dreamware/qpick/pkg/jumphash"
	"github.com/dreamware/qpick/pkg/ngram"
	"github.com/dreamware/qpick/pkg/posting"
	"github.com/dreamware/qpick/pkg/scorer"
	"github.com/dreamware/qpick/pkg/sid"
)

// DefaultK is the result count callers get when they don't specify one.
const DefaultK = 100

// ShardRange is a half-open [Start, End) range of shard ids this engine
// serves, permitting partial hosting of an index across processes.
type ShardRange struct {
	Start, End int
}

// Engine is a read-only, concurrency-safe handle on an open index. Index
// shape (id size, bucket size, shard count, shard size) lives entirely on
// the instance rather than in package-level mutable state, so multiple
// Engines with different shapes can coexist in one process.
type Engine struct {
	cfg        *config.Config
	stopwords  ngram.Stopwords
	terms      *ngram.TermsRelevance
	shardRange ShardRange
	shards     map[int]scorer.Shard // keyed by global shard id
	files      []*os.File           // posting files behind shards' Readers
}

// Open constructs an Engine over the full shard range of the index at
// root. Construction errors (§7 IndexOpen / Config) are fatal: an Engine
// cannot serve queries without a valid index.
func Open(root string) (*Engine, error) {
	return OpenRange(root, nil)
}

// OpenRange constructs an Engine serving only shardRange of the index,
// e.g. for sharding one logical index across multiple processes. A nil
// shardRange serves the whole index.
func OpenRange(root string, shardRange *ShardRange) (*Engine, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	rng := ShardRange{Start: 0, End: cfg.NrShards}
	if shardRange != nil {
		rng = *shardRange
	}

	// An empty path means the index was built without that file; Parse
	// accepts nil for both, exactly as the builder did.
	var stop ngram.Stopwords
	if cfg.StopwordsPath != "" {
		if stop, err = ngram.LoadStopwords(cfg.StopwordsPath); err != nil {
			return nil, err
		}
	}

	var terms *ngram.TermsRelevance
	if cfg.TermsRelevancePath != "" {
		if terms, err = ngram.OpenTermsRelevance(cfg.TermsRelevancePath); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		cfg:        cfg,
		stopwords:  stop,
		terms:      terms,
		shardRange: rng,
		shards:     make(map[int]scorer.Shard, rng.End-rng.Start),
	}

	for i := rng.Start; i < rng.End; i++ {
		idx, err := fstindex.Open(cfg.MapPath(i))
		if err != nil {
			e.Close()
			return nil, err
		}
		f, err := os.Open(cfg.ShardPath(i))
		if err != nil {
			idx.Close()
			e.Close()
			return nil, err
		}
		e.files = append(e.files, f)
		e.shards[i] = scorer.Shard{Index: idx, Reader: posting.NewReader(f, cfg.BucketSize)}
	}

	nlog.Infof("qpick: opened index %s shards=[%d,%d) nr_shards=%d", root, rng.Start, rng.End, cfg.NrShards)
	return e, nil
}

// Close releases all memory maps and open files. Close is idempotent.
func (e *Engine) Close() error {
	if e.terms != nil {
		e.terms.Close()
		e.terms = nil
	}
	for i, sh := range e.shards {
		sh.Index.Close()
		delete(e.shards, i)
	}
	for _, f := range e.files {
		f.Close()
	}
	e.files = nil
	return nil
}

// Get parses query into n-grams and returns the top-k scored ids.
func (e *Engine) Get(query string, k int) ([]sid.Sid, error) {
	if query == "" || k == 0 {
		return nil, nil
	}
	ngrams := ngram.Parse(query, e.stopwords, e.terms, ngram.Query)
	return e.GetIDs(ngrams, k)
}

// NGet parses and union-merges n-grams across multiple queries (last
// writer wins on weight collisions), then returns the top-k scored ids.
func (e *Engine) NGet(queries []string, k int) ([]sid.Sid, error) {
	if len(queries) == 0 || k == 0 {
		return nil, nil
	}
	parsed := make([]map[string]float32, len(queries))
	for i, q := range queries {
		parsed[i] = ngram.Parse(q, e.stopwords, e.terms, ngram.Query)
	}
	return e.GetIDs(ngram.Merge(parsed...), k)
}

// GetIDs implements §4.7 get_ids directly over a caller-supplied ngram
// weight map; Get and NGet are thin wrappers that first build that map.
func (e *Engine) GetIDs(ngrams map[string]float32, k int) ([]sid.Sid, error) {
	if len(ngrams) == 0 || k == 0 {
		return nil, nil
	}

	perShard := e.cfg.OverfetchFor(k)

	byShard := make(map[int]map[string]float32)
	for g, w := range ngrams {
		s := jumphash.ShardString(g, e.cfg.NrShards)
		if s < e.shardRange.Start || s >= e.shardRange.End {
			continue
		}
		m := byShard[s]
		if m == nil {
			m = make(map[string]float32)
			byShard[s] = m
		}
		m[g] = w
	}

	if len(byShard) == 0 {
		return nil, nil
	}

	results := make([]scorer.Result, 0, len(byShard))
	var mu sync.Mutex

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))

	for shardID, shardNgrams := range byShard {
		shardID, shardNgrams := shardID, shardNgrams
		g.Go(func() error {
			sh := e.shards[shardID]
			res, err := scorer.Score(sh, shardNgrams, e.cfg.NrShards, e.cfg.ShardSize, perShard)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[uint64]float32)
	var norm float32
	for _, r := range results {
		for _, s := range r.IDs {
			merged[s.ID] += s.Sc
		}
		norm += r.Norm
	}

	out := make([]sid.Sid, 0, len(merged))
	if norm == 0 {
		norm = 1
	}
	for id, sc := range merged {
		out = append(out, sid.Sid{ID: id, Sc: sc / norm})
	}
	sid.SortDesc(out)
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out, nil
}
