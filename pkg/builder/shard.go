package builder

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dreamware/qpick/internal/nlog"
	"github.com/dreamware/qpick/pkg/jumphash"
)

// LineSharder is the default Sharder: it reads the whole input file once,
// computes each line's owning shard in parallel, then writes every shard
// file sequentially in original line order. Keeping the write phase
// single-threaded is what makes the output deterministic regardless of
// concurrency: a mutex-guarded concurrent writer would still reorder lines
// within a shard based on goroutine scheduling.
type LineSharder struct{}

// Shard implements Sharder. Each input line must be "<qid>\t<query>"; qid
// determines the owning shard via jumphash.ShardQueryID.
func (LineSharder) Shard(inputPath string, nrShards, concurrency int, outputDir string) error {
	lines, err := readLines(inputPath)
	if err != nil {
		return err
	}

	if concurrency < 1 {
		concurrency = 1
	}

	shardOf := make([]int, len(lines))
	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			qid, err := parseQID(line)
			if err != nil {
				return err
			}
			shardOf[i] = jumphash.ShardQueryID(qid, nrShards)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	writers := make([]*bufio.Writer, nrShards)
	files := make([]*os.File, nrShards)
	for i := 0; i < nrShards; i++ {
		f, err := os.Create(filepath.Join(outputDir, "shard."+strconv.Itoa(i)))
		if err != nil {
			return err
		}
		files[i] = f
		writers[i] = bufio.NewWriter(f)
	}
	defer func() {
		for i := range writers {
			writers[i].Flush()
			files[i].Close()
		}
	}()

	for i, line := range lines {
		w := writers[shardOf[i]]
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}

	nlog.Infof("qpick: sharded %s (%d lines) into %d shards under %s", inputPath, len(lines), nrShards, outputDir)
	return nil
}

func parseQID(line string) (uint64, error) {
	tab := strings.IndexByte(line, '\t')
	if tab < 0 {
		return 0, fmt.Errorf("qpick: malformed shard input line (no tab): %q", line)
	}
	qid, err := strconv.ParseUint(line[:tab], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("qpick: malformed qid in line %q: %w", line, err)
	}
	return qid, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("qpick: open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if sc.Text() == "" {
			continue
		}
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
