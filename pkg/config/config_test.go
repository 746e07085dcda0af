package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadValid(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{
		"nr_shards": 4,
		"id_size": 7,
		"bucket_size": 64,
		"shard_size": 1000,
		"stopwords_path": "stopwords.txt",
		"terms_relevance_path": "terms.fst"
	}`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.NrShards != 4 || c.BucketSize != 64 || c.ShardSize != 1000 {
		t.Fatalf("unexpected config: %+v", c)
	}
	if c.PerShardOverfetch != defaultPerShardOverfetch || c.OverfetchMaxK != defaultOverfetchMaxK {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if c.StopwordsPath != filepath.Join(dir, "stopwords.txt") {
		t.Fatalf("stopwords path not resolved: %s", c.StopwordsPath)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for missing config.json")
	}
}

func TestLoadInvalidIDSize(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"nr_shards":1,"id_size":8,"bucket_size":1,"shard_size":1}`)
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for bad id_size")
	}
}

func TestLoadVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"version":99,"nr_shards":1,"id_size":7,"bucket_size":1,"shard_size":1}`)
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for version mismatch")
	}
}

func TestOverfetchFor(t *testing.T) {
	c := &Config{PerShardOverfetch: 100, OverfetchMaxK: 50}
	if got := c.OverfetchFor(1); got != 100 {
		t.Fatalf("OverfetchFor(1) = %d, want 100", got)
	}
	if got := c.OverfetchFor(50); got != 100 {
		t.Fatalf("OverfetchFor(50) = %d, want 100", got)
	}
	if got := c.OverfetchFor(51); got != 51 {
		t.Fatalf("OverfetchFor(51) = %d, want 51", got)
	}
	if got := c.OverfetchFor(0); got != 0 {
		t.Fatalf("OverfetchFor(0) = %d, want 0", got)
	}
}
