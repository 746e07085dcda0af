package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/blevesearch/vellum"

	"github.com/dreamware/qpick/internal/nlog"
	"github.com/dreamware/qpick/pkg/fstindex"
	"github.com/dreamware/qpick/pkg/pairing"
	"github.com/dreamware/qpick/pkg/posting"
)

// ShardMerger is the default Merger: it combines N partial indexing
// passes (each a directory holding map.{i}/shard.{i}) into a single
// map.{i}/shard.{i} pair per shard, re-applying the bucket-size overflow
// rule across the union of postings.
type ShardMerger struct {
	BucketSize int
}

// Merge implements Merger.
func (m ShardMerger) Merge(partDirs []string, nrShards int, outputDir string) error {
	if len(partDirs) == 0 {
		return fmt.Errorf("qpick: merge requires at least one part directory")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	for i := 0; i < nrShards; i++ {
		if err := m.mergeOne(partDirs, i, outputDir); err != nil {
			return fmt.Errorf("qpick: merge shard %d: %w", i, err)
		}
	}
	return nil
}

func (m ShardMerger) mergeOne(partDirs []string, shardNum int, outputDir string) error {
	merged := make(map[string][]candidate)

	for _, part := range partDirs {
		mapPath := filepath.Join(part, "map."+strconv.Itoa(shardNum))
		shardPath := filepath.Join(part, "shard."+strconv.Itoa(shardNum))

		if _, err := os.Stat(mapPath); os.IsNotExist(err) {
			continue // this part didn't touch this shard
		}

		idx, err := fstindex.Open(mapPath)
		if err != nil {
			return err
		}
		sf, err := os.Open(shardPath)
		if err != nil {
			idx.Close()
			return err
		}
		reader := posting.NewReader(sf, m.BucketSize)

		if err := idx.Iterate(func(ngram string, addr uint64, length uint32) error {
			for _, rec := range reader.ReadBucket(addr, length) {
				merged[ngram] = append(merged[ngram], candidate{
					pqid: rec.PQID, rem: rec.Remainder, tr: rec.TR, f: rec.F,
				})
			}
			return nil
		}); err != nil {
			sf.Close()
			idx.Close()
			return err
		}
		sf.Close()
		idx.Close()
	}

	keys := make([]string, 0, len(merged))
	for g := range merged {
		keys = append(keys, g)
	}
	sort.Strings(keys)

	shardPath := filepath.Join(outputDir, "shard."+strconv.Itoa(shardNum))
	mapPath := filepath.Join(outputDir, "map."+strconv.Itoa(shardNum))

	sf, err := os.Create(shardPath)
	if err != nil {
		return err
	}
	defer sf.Close()
	mf, err := os.Create(mapPath)
	if err != nil {
		return err
	}
	defer mf.Close()
	mb, err := vellum.New(mf, nil)
	if err != nil {
		return err
	}

	var addr uint64
	for _, g := range keys {
		bucket := truncateBucket(merged[g], m.BucketSize)
		for _, c := range bucket {
			if _, err := sf.Write([]byte{
				byte(c.pqid), byte(c.pqid >> 8), byte(c.pqid >> 16), byte(c.pqid >> 24),
				c.rem, c.tr, c.f,
			}); err != nil {
				return err
			}
		}
		if err := mb.Insert([]byte(g), pairing.Pair(uint32(addr), uint32(len(bucket)))); err != nil {
			return err
		}
		addr += uint64(len(bucket))
	}
	if err := mb.Close(); err != nil {
		return err
	}

	nlog.Infof("qpick: merged shard %d from %d parts: %d ngrams", shardNum, len(partDirs), len(keys))
	return nil
}
