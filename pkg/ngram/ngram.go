// Package ngram implements the deterministic n-gram extractor shared by
// the query engine and the offline builder (§4.3). Both sides must call
// Parse identically — any divergence silently corrupts scoring, since the
// builder's postings and the reader's lookups would be keyed differently.
package ngram

import (
	"strings"
	"unicode"

	"github.com/dreamware/qpick/pkg/fstindex"
)

// QueryType selects the extraction mode. Only Query is implemented; the
// type exists so the builder and reader contracts can add modes (e.g. a
// title/description split) without changing Parse's signature.
type QueryType int

const (
	Query QueryType = iota
)

// defaultRelevance is used for a term absent from the terms-relevance map.
const defaultRelevance = 100

// stopwordWeight down-weights rather than drops a stop-word's contribution,
// so a query built entirely of stop-words still produces n-grams instead
// of an empty map.
const stopwordWeight = 0.1

// Stopwords is a case-insensitive set of words to down-weight.
type Stopwords map[string]struct{}

// Contains reports whether word (already lowercased) is a stop-word.
func (s Stopwords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// LoadStopwords reads one word per line.
func LoadStopwords(path string) (Stopwords, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	s := make(Stopwords, len(lines))
	for _, l := range lines {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		s[l] = struct{}{}
	}
	return s, nil
}

// TermsRelevance wraps the global term -> percent-relevance FST.
type TermsRelevance struct {
	raw *fstindex.RawFST
}

// OpenTermsRelevance memory-maps the terms-relevance FST at path.
func OpenTermsRelevance(path string) (*TermsRelevance, error) {
	raw, err := fstindex.OpenRaw(path)
	if err != nil {
		return nil, err
	}
	return &TermsRelevance{raw: raw}, nil
}

// Close unmaps the backing memory.
func (t *TermsRelevance) Close() error { return t.raw.Close() }

// relevance returns a term's percent score in [0,100], defaulting to
// defaultRelevance when the term is unknown.
func (t *TermsRelevance) relevance(term string) float32 {
	if t == nil || t.raw == nil {
		return defaultRelevance
	}
	v, ok, err := t.raw.Get(term)
	if err != nil || !ok {
		return defaultRelevance
	}
	return float32(v)
}

// tokenize lowercases and splits on anything that is not a letter or
// digit, dropping empty tokens. It is the single normalization step both
// the builder and the reader must apply identically.
func tokenize(s string) []string {
	s = strings.ToLower(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return fields
}

// weightOf returns a token's [0,1] term weight: its relevance percent
// over 100, down-weighted if it is a stop-word.
func weightOf(token string, stop Stopwords, terms *TermsRelevance) float32 {
	w := terms.relevance(token) / 100.0
	if stop.Contains(token) {
		w *= stopwordWeight
	}
	return w
}

// Parse extracts weighted n-grams from query. The scheme is deliberately
// simple and stable: adjacent-word bigrams, weighted by the lower of the
// two words' term relevance, falling back to the single token's own
// weight when the query has only one word. Multiple occurrences of the
// same bigram keep their last-computed weight, matching the "last writer
// wins" rule NGet applies when union-merging ngrams across queries.
func Parse(query string, stop Stopwords, terms *TermsRelevance, _ QueryType) map[string]float32 {
	tokens := tokenize(query)
	out := make(map[string]float32, len(tokens))

	if len(tokens) == 0 {
		return out
	}
	if len(tokens) == 1 {
		out[tokens[0]] = weightOf(tokens[0], stop, terms)
		return out
	}

	for i := 0; i+1 < len(tokens); i++ {
		a, b := tokens[i], tokens[i+1]
		wa, wb := weightOf(a, stop, terms), weightOf(b, stop, terms)
		w := wa
		if wb < w {
			w = wb
		}
		out[a+" "+b] = w
	}
	return out
}

// Merge union-merges ngram maps from multiple queries, last writer wins on
// weight collisions, per §4.7 NGet.
func Merge(maps ...map[string]float32) map[string]float32 {
	out := make(map[string]float32)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
