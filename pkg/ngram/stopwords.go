package ngram

import (
	"bufio"
	"os"

	"github.com/dreamware/qpick/internal/cos"
)

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cos.NewErrIndexOpen(path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, cos.NewErrIndexOpen(path, err)
	}
	return lines, nil
}
