// Package builder declares the contracts the offline indexing tools must
// satisfy and ships a reference implementation of each, used by the
// cmd/qpick-build and cmd/qpick-merge front ends. These tools build the
// on-disk index the query engine opens; they are not part of the engine's
// read path.
package builder

// Sharder partitions a raw "<qid>\t<query>" input file across nr_shards
// output files by jump-consistent-hashing the query id.
type Sharder interface {
	Shard(inputPath string, nrShards, concurrency int, outputDir string) error
}

// Indexer turns the line-delimited shard files produced by a Sharder into
// the map.{i}/shard.{i} pair an Engine opens.
type Indexer interface {
	Index(inputDir string, first, last int, outputDir string) error
}

// Merger combines partial per-shard indexes, produced by multiple Indexer
// passes over disjoint input slices, into one map.{i}/shard.{i} pair per
// shard.
type Merger interface {
	Merge(partDirs []string, nrShards int, outputDir string) error
}
