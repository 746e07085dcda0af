// Command qpick-query opens an index directory and prints the JSON result
// of a single query, exercising the engine's read path from the command
// line. It intentionally does not daemonize or serve HTTP — see spec
// §4.12 for why that's left to a separate wrapper.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dreamware/qpick/pkg/qpick"
)

func main() {
	var (
		root  = flag.String("index", "", "path to the index directory")
		k     = flag.Int("k", qpick.DefaultK, "number of results to return")
		query = flag.String("q", "", "query string")
	)
	flag.Parse()

	if *root == "" || *query == "" {
		fmt.Fprintln(os.Stderr, "usage: qpick-query -index <dir> -q <query> [-k N]")
		os.Exit(2)
	}

	e, err := qpick.Open(*root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "qpick-query: %v\n", err)
		os.Exit(1)
	}
	defer e.Close()

	out, err := e.GetStr(*query, *k)
	if err != nil {
		fmt.Fprintf(os.Stderr, "qpick-query: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(out)
}
