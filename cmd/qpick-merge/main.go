// Command qpick-merge combines several partial index directories (each
// produced by a qpick-build run over a disjoint slice of the corpus) into
// one, re-applying the bucket overflow rule across the union of postings
// per shard.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/dreamware/qpick/internal/nlog"
	"github.com/dreamware/qpick/pkg/builder"
	"github.com/dreamware/qpick/pkg/config"
)

func main() {
	var (
		parts      = flag.String("parts", "", "comma-separated list of partial index directories")
		nrShards   = flag.Int("nr-shards", 0, "number of shards")
		bucketSize = flag.Int("bucket-size", 64, "max postings per n-gram bucket")
		out        = flag.String("out", "", "merged output index directory")
	)
	flag.Parse()

	if *parts == "" || *nrShards <= 0 || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: qpick-merge -parts <dir1,dir2,...> -nr-shards N -out <dir> [-bucket-size N]")
		os.Exit(2)
	}
	partDirs := strings.Split(*parts, ",")

	m := builder.ShardMerger{BucketSize: *bucketSize}
	if err := m.Merge(partDirs, *nrShards, *out); err != nil {
		fmt.Fprintf(os.Stderr, "qpick-merge: %v\n", err)
		os.Exit(1)
	}

	if err := writeMergedConfig(partDirs[0], *out, *nrShards, *bucketSize); err != nil {
		fmt.Fprintf(os.Stderr, "qpick-merge: config: %v\n", err)
		os.Exit(1)
	}

	nlog.Infof("qpick-merge: merged %d parts into %s", len(partDirs), *out)
}

// writeMergedConfig carries forward the first part's config.json, keeping
// its shard_size/stopwords/terms-relevance settings, since those describe
// the corpus rather than any one partial build.
func writeMergedConfig(firstPart, outDir string, nrShards, bucketSize int) error {
	src, err := config.Load(firstPart)
	if err != nil {
		return err
	}

	out := struct {
		Version            int    `json:"version"`
		NrShards           int    `json:"nr_shards"`
		IDSize             int    `json:"id_size"`
		BucketSize         int    `json:"bucket_size"`
		ShardSize          int    `json:"shard_size"`
		StopwordsPath      string `json:"stopwords_path,omitempty"`
		TermsRelevancePath string `json:"terms_relevance_path,omitempty"`
	}{
		Version:    config.IndexVersion,
		NrShards:   nrShards,
		IDSize:     7,
		BucketSize: bucketSize,
		ShardSize:  src.ShardSize,
	}
	if src.StopwordsPath != "" {
		rel, err := filepath.Rel(outDir, src.StopwordsPath)
		if err == nil {
			out.StopwordsPath = rel
		} else {
			out.StopwordsPath = src.StopwordsPath
		}
	}
	if src.TermsRelevancePath != "" {
		rel, err := filepath.Rel(outDir, src.TermsRelevancePath)
		if err == nil {
			out.TermsRelevancePath = rel
		} else {
			out.TermsRelevancePath = src.TermsRelevancePath
		}
	}

	data, err := jsoniter.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "config.json"), data, 0o644)
}
