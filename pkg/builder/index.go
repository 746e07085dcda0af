package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/vellum"

	"github.com/dreamware/qpick/internal/nlog"
	"github.com/dreamware/qpick/pkg/ngram"
	"github.com/dreamware/qpick/pkg/pairing"
	"github.com/dreamware/qpick/pkg/posting"
)

// NgramIndexer is the default Indexer: it extracts n-grams from each
// shard's queries with the exact same ngram.Parse the query engine uses,
// aggregates postings per n-gram, and emits map.{i}/shard.{i}.
type NgramIndexer struct {
	Stopwords  ngram.Stopwords
	Terms      *ngram.TermsRelevance
	NrShards   int
	BucketSize int
}

// candidate is one (query, weight) contribution to an n-gram's bucket
// before overflow ranking and encoding.
type candidate struct {
	pqid uint32
	rem  uint8
	tr   uint8
	f    uint8
}

// Index implements Indexer over shard files produced by a Sharder: each
// line is "<qid>\t<query>".
func (idx NgramIndexer) Index(inputDir string, first, last int, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	for i := first; i < last; i++ {
		if err := idx.indexOne(inputDir, i, outputDir); err != nil {
			return fmt.Errorf("qpick: index shard %d: %w", i, err)
		}
	}
	return nil
}

func (idx NgramIndexer) indexOne(inputDir string, shardNum int, outputDir string) error {
	lines, err := readLines(filepath.Join(inputDir, "shard."+strconv.Itoa(shardNum)))
	if err != nil {
		return err
	}

	postings := make(map[string][]candidate)
	for _, line := range lines {
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			continue
		}
		qid, err := strconv.ParseUint(line[:tab], 10, 64)
		if err != nil {
			continue
		}
		query := line[tab+1:]

		pqid, rem := posting.SplitQueryID(qid, idx.NrShards)
		for g, w := range ngram.Parse(query, idx.Stopwords, idx.Terms, ngram.Query) {
			tr := uint8(clamp(w*100, 1, 100))
			f := uint8(clamp(w*255, 0, 255))
			postings[g] = append(postings[g], candidate{pqid: pqid, rem: rem, tr: tr, f: f})
		}
	}

	keys := make([]string, 0, len(postings))
	for g := range postings {
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
		bucket := truncateBucket(postings[g], idx.BucketSize)
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

	nlog.Infof("qpick: indexed shard %d: %d ngrams, %d postings", shardNum, len(keys), addr)
	return nil
}

// truncateBucket keeps the BucketSize highest-ranked postings by (tr, f)
// descending, tie-broken by pqid ascending for determinism.
func truncateBucket(cands []candidate, bucketSize int) []candidate {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].tr != cands[j].tr {
			return cands[i].tr > cands[j].tr
		}
		if cands[i].f != cands[j].f {
			return cands[i].f > cands[j].f
		}
		return cands[i].pqid < cands[j].pqid
	})
	if len(cands) > bucketSize {
		cands = cands[:bucketSize]
	}
	return cands
}

func clamp(v float32, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
