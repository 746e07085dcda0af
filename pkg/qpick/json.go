package qpick

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/dreamware/qpick/pkg/sid"
)

// toPairs converts results to the [id, score] two-element array shape of
// the JSON wire format (§6): jsoniter.Marshal on a Sid would produce an
// object, so results are flattened into plain [2]float64 pairs.
func toPairs(ids []sid.Sid) [][2]float64 {
	out := make([][2]float64, len(ids))
	for i, s := range ids {
		out[i] = [2]float64{float64(s.ID), float64(s.Sc)}
	}
	return out
}

// GetStr is the JSON-encoding variant of Get: the result is an array of
// [id, score] pairs, length <= k. JSON encoding errors are fatal to the
// call, per §7 (they cannot be degraded gracefully, unlike a bad shard
// read).
func (e *Engine) GetStr(query string, k int) (string, error) {
	ids, err := e.Get(query, k)
	if err != nil {
		return "", err
	}
	b, err := jsoniter.Marshal(toPairs(ids))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// NGetStr parses its input as a JSON array of query strings, then behaves
// like GetStr over the union of their n-grams.
func (e *Engine) NGetStr(queriesJSON string, k int) (string, error) {
	var queries []string
	if err := jsoniter.UnmarshalFromString(queriesJSON, &queries); err != nil {
		return "", err
	}
	ids, err := e.NGet(queries, k)
	if err != nil {
		return "", err
	}
	b, err := jsoniter.Marshal(toPairs(ids))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
