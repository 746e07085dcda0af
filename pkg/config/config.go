// Package config loads and validates the index directory's config.json.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/dreamware/qpick/internal/cos"
)

// IndexVersion is the on-disk format version this engine understands. An
// index whose config.json names a different version is refused at open
// time rather than silently misread.
const IndexVersion = 1

const (
	defaultPerShardOverfetch = 100
	defaultOverfetchMaxK     = 50
)

// Config mirrors config.json plus the defaults applied at load time.
// Index shape (id size, bucket size, shard count, shard size) lives here
// rather than as package-level constants, so two indexes with different
// shapes can be open in the same process.
type Config struct {
	Version             int    `json:"version"`
	NrShards            int    `json:"nr_shards"`
	IDSize              int    `json:"id_size"`
	BucketSize          int    `json:"bucket_size"`
	ShardSize           int    `json:"shard_size"`
	StopwordsPath       string `json:"stopwords_path"`
	TermsRelevancePath  string `json:"terms_relevance_path"`
	PerShardOverfetch   int    `json:"per_shard_overfetch,omitempty"`
	OverfetchMaxK       int    `json:"overfetch_max_k,omitempty"`

	// Root is the directory config.json was loaded from; not serialized.
	Root string `json:"-"`
}

// Load reads and validates <root>/config.json.
func Load(root string) (*Config, error) {
	path := filepath.Join(root, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cos.NewErrConfig(path, err)
	}

	c := &Config{}
	if err := jsoniter.Unmarshal(data, c); err != nil {
		return nil, cos.NewErrConfig(path, err)
	}
	c.Root = root

	if c.Version == 0 {
		c.Version = 1
	}
	if c.Version != IndexVersion {
		return nil, cos.NewErrConfig(path, errVersionMismatch(c.Version, IndexVersion))
	}
	if c.PerShardOverfetch == 0 {
		c.PerShardOverfetch = defaultPerShardOverfetch
	}
	if c.OverfetchMaxK == 0 {
		c.OverfetchMaxK = defaultOverfetchMaxK
	}

	if err := c.validate(); err != nil {
		return nil, cos.NewErrConfig(path, err)
	}

	c.StopwordsPath = c.resolve(c.StopwordsPath)
	c.TermsRelevancePath = c.resolve(c.TermsRelevancePath)

	return c, nil
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func (c *Config) validate() error {
	switch {
	case c.IDSize != 7:
		return errInvalid("id_size must be 7")
	case c.NrShards <= 0:
		return errInvalid("nr_shards must be > 0")
	case c.BucketSize <= 0:
		return errInvalid("bucket_size must be > 0")
	case c.ShardSize <= 0:
		return errInvalid("shard_size must be > 0")
	}
	return nil
}

// OverfetchFor returns the per-shard count to request given the caller's
// requested k, per the over-fetch rule of §4.7.
func (c *Config) OverfetchFor(k int) int {
	if k >= 1 && k <= c.OverfetchMaxK {
		return c.PerShardOverfetch
	}
	return k
}

// MapPath returns the path of shard i's FST map file.
func (c *Config) MapPath(i int) string {
	return filepath.Join(c.Root, "map."+strconv.Itoa(i))
}

// ShardPath returns the path of shard i's posting file.
func (c *Config) ShardPath(i int) string {
	return filepath.Join(c.Root, "shard."+strconv.Itoa(i))
}

type invalidErr string

func errInvalid(s string) error    { return invalidErr(s) }
func (e invalidErr) Error() string { return string(e) }

type versionErr struct {
	got, want int
}

func errVersionMismatch(got, want int) error { return versionErr{got, want} }
func (e versionErr) Error() string {
	return "index version mismatch: got " + strconv.Itoa(e.got) + ", engine supports " + strconv.Itoa(e.want)
}
