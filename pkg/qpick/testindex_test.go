package qpick

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blevesearch/vellum"

	jsoniter "github.com/json-iterator/go"

	"github.com/dreamware/qpick/pkg/jumphash"
	"github.com/dreamware/qpick/pkg/pairing"
	"github.com/dreamware/qpick/pkg/posting"
)

// shardEntry is one n-gram's posting bucket destined for whichever shard
// jumphash assigns it to.
type shardEntry struct {
	ngram   string
	records []posting.Record
}

// buildIndex writes a complete index directory for nrShards shards, routing
// each entry to its jump-consistent-hash shard automatically so tests don't
// need to hardcode shard assignments.
func buildIndex(t *testing.T, nrShards, bucketSize, shardSize int, entries []shardEntry) string {
	t.Helper()
	root := t.TempDir()

	shardFiles := make(map[int]*os.File)
	byShard := make(map[int][]shardEntry)
	for _, e := range entries {
		s := jumphash.ShardString(e.ngram, nrShards)
		byShard[s] = append(byShard[s], e)
	}

	for i := 0; i < nrShards; i++ {
		sf, err := os.Create(filepath.Join(root, "shard."+itoa(i)))
		if err != nil {
			t.Fatal(err)
		}
		shardFiles[i] = sf

		mf, err := os.Create(filepath.Join(root, "map."+itoa(i)))
		if err != nil {
			t.Fatal(err)
		}
		b, err := vellum.New(mf, nil)
		if err != nil {
			t.Fatal(err)
		}

		es := byShard[i]
		// vellum requires lexicographic key order.
		for a := 0; a < len(es); a++ {
			for c := a + 1; c < len(es); c++ {
				if es[c].ngram < es[a].ngram {
					es[a], es[c] = es[c], es[a]
				}
			}
		}

		var addr uint64
		for _, e := range es {
			for _, r := range e.records {
				buf := []byte{
					byte(r.PQID), byte(r.PQID >> 8), byte(r.PQID >> 16), byte(r.PQID >> 24),
					r.Remainder, r.TR, r.F,
				}
				if _, err := sf.Write(buf); err != nil {
					t.Fatal(err)
				}
			}
			if err := b.Insert([]byte(e.ngram), pairing.Pair(uint32(addr), uint32(len(e.records)))); err != nil {
				t.Fatal(err)
			}
			addr += uint64(len(e.records))
		}
		if err := b.Close(); err != nil {
			t.Fatal(err)
		}
		mf.Close()
		sf.Close()
	}

	cfg := map[string]any{
		"nr_shards":            nrShards,
		"id_size":              7,
		"bucket_size":          bucketSize,
		"shard_size":           shardSize,
		"stopwords_path":       "stopwords.txt",
		"terms_relevance_path": "terms.fst",
	}
	b, err := jsoniter.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "config.json"), b, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "stopwords.txt"), []byte("the\na\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tf, err := os.Create(filepath.Join(root, "terms.fst"))
	if err != nil {
		t.Fatal(err)
	}
	tb, err := vellum.New(tf, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := tb.Close(); err != nil {
		t.Fatal(err)
	}
	tf.Close()

	return root
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	buf := []byte{}
	for i > 0 {
		buf = append([]byte{byte('0' + i%10)}, buf...)
		i /= 10
	}
	return string(buf)
}
