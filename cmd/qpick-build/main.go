// Command qpick-build wraps builder.Shard followed by builder.Index: it
// partitions a raw "<qid>\t<query>" file across shards and then extracts
// n-grams into map.{i}/shard.{i} files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/dreamware/qpick/internal/nlog"
	"github.com/dreamware/qpick/pkg/builder"
	"github.com/dreamware/qpick/pkg/config"
	"github.com/dreamware/qpick/pkg/ngram"
)

func main() {
	var (
		input              = flag.String("input", "", "raw <qid>\\t<query> file")
		nrShards           = flag.Int("nr-shards", 0, "number of shards")
		bucketSize         = flag.Int("bucket-size", 64, "max postings per n-gram bucket")
		shardSize          = flag.Int("shard-size", 1_000_000, "approximate number of queries per shard, for idf")
		concurrency        = flag.Int("concurrency", 4, "sharder concurrency")
		out                = flag.String("out", "", "output index directory")
		stopwordsPath      = flag.String("stopwords", "", "optional stop-words file")
		termsRelevancePath = flag.String("terms-relevance", "", "optional terms-relevance FST")
	)
	flag.Parse()

	if *input == "" || *nrShards <= 0 || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: qpick-build -input <file> -nr-shards N -out <dir> [-bucket-size N] [-concurrency N]")
		os.Exit(2)
	}

	shardedDir := *out + ".sharded"
	if err := (builder.LineSharder{}).Shard(*input, *nrShards, *concurrency, shardedDir); err != nil {
		fmt.Fprintf(os.Stderr, "qpick-build: shard: %v\n", err)
		os.Exit(1)
	}

	var stop ngram.Stopwords
	if *stopwordsPath != "" {
		var err error
		stop, err = ngram.LoadStopwords(*stopwordsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "qpick-build: %v\n", err)
			os.Exit(1)
		}
	}

	var terms *ngram.TermsRelevance
	if *termsRelevancePath != "" {
		var err error
		terms, err = ngram.OpenTermsRelevance(*termsRelevancePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "qpick-build: %v\n", err)
			os.Exit(1)
		}
		defer terms.Close()
	}

	idxr := builder.NgramIndexer{
		Stopwords:  stop,
		Terms:      terms,
		NrShards:   *nrShards,
		BucketSize: *bucketSize,
	}
	if err := idxr.Index(shardedDir, 0, *nrShards, *out); err != nil {
		fmt.Fprintf(os.Stderr, "qpick-build: index: %v\n", err)
		os.Exit(1)
	}

	if err := writeConfig(*out, *nrShards, *bucketSize, *shardSize, *stopwordsPath, *termsRelevancePath); err != nil {
		fmt.Fprintf(os.Stderr, "qpick-build: config: %v\n", err)
		os.Exit(1)
	}

	nlog.Infof("qpick-build: wrote index to %s", *out)
}

// writeConfig emits the config.json an Engine needs to open this index.
// Stopwords/terms-relevance paths are stored relative to the index
// directory when possible so the directory stays relocatable.
func writeConfig(outDir string, nrShards, bucketSize, shardSize int, stopwordsPath, termsRelevancePath string) error {
	cfg := struct {
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
		ShardSize:  shardSize,
	}
	if stopwordsPath != "" {
		cfg.StopwordsPath = relOrAbs(outDir, stopwordsPath)
	}
	if termsRelevancePath != "" {
		cfg.TermsRelevancePath = relOrAbs(outDir, termsRelevancePath)
	}

	data, err := jsoniter.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "config.json"), data, 0o644)
}

func relOrAbs(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
