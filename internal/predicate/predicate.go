// Package predicate holds the registry of named predicate kinds that a filter
// condition may reference.
package predicate

import (
	"sort"

	"github.com/TimurManjosov/recordfilter/internal/document"
)

// Kind names a predicate strategy used as a top-level key of a condition.
type Kind string

const (
	KindInclude Kind = "include"
	KindExclude Kind = "exclude"
)

// Predicate tests a single record.
type Predicate func(record *document.Node) bool

// Builder constructs the predicate for one field and expected value.
type Builder func(field string, value *document.Node) Predicate

// Registry maps kind names to builders. A Registry is never modified after
// construction and is safe for concurrent readers.
type Registry struct {
	builders map[Kind]Builder
}

var defaultRegistry = NewRegistry(map[Kind]Builder{
	KindInclude: include,
	KindExclude: exclude,
})

// Default returns the process-wide registry holding include and exclude.
func Default() Registry { return defaultRegistry }

// NewRegistry copies builders into a new Registry.
func NewRegistry(builders map[Kind]Builder) Registry {
	copied := make(map[Kind]Builder, len(builders))
	for k, b := range builders {
		copied[k] = b
	}
	return Registry{builders: copied}
}

// Lookup returns the builder registered under name.
func (r Registry) Lookup(name string) (Builder, bool) {
	b, ok := r.builders[Kind(name)]
	return b, ok
}

// Kinds lists the registered kinds in lexical order.
func (r Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.builders))
	for k := range r.builders {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// include matches records whose field is structurally equal to value.
func include(field string, value *document.Node) Predicate {
	return func(record *document.Node) bool {
		return record.Get(field).Equal(value)
	}
}

// exclude is the complement of include.
func exclude(field string, value *document.Node) Predicate {
	matches := include(field, value)
	return func(record *document.Node) bool {
		return !matches(record)
	}
}
