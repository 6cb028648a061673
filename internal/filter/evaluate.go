package filter

import "github.com/TimurManjosov/recordfilter/internal/document"

// MatchAll reports whether record satisfies every predicate. An empty slice
// matches everything.
func MatchAll(record *document.Node, preds []Compiled) bool {
	for _, p := range preds {
		if !p.Match(record) {
			return false
		}
	}
	return true
}

// Select returns the records of data that satisfy preds, in input order.
func Select(data *document.Node, preds []Compiled) []*document.Node {
	matched := make([]*document.Node, 0, data.Len())
	for _, record := range data.Elements() {
		if MatchAll(record, preds) {
			matched = append(matched, record)
		}
	}
	return matched
}

// Evaluate applies preds to data and serializes each match as indented JSON.
func Evaluate(data *document.Node, preds []Compiled) []string {
	matched := Select(data, preds)
	out := make([]string, len(matched))
	for i, record := range matched {
		out[i] = record.Pretty()
	}
	return out
}
