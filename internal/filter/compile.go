package filter

import (
	"github.com/TimurManjosov/recordfilter/internal/document"
	"github.com/TimurManjosov/recordfilter/internal/predicate"
)

// Compiled is a predicate bound to the field and value it was built from.
type Compiled struct {
	Kind  string
	Field string
	Value *document.Node
	Match predicate.Predicate
}

// Compile turns spec into predicates over the records of data.
//
// Kinds missing from reg are skipped. Every other constraint must carry a
// value and name a field that is non-null in every record, otherwise
// MsgFieldNotInData is logged. At most one constraint per kind is active: the
// last valid one in document order. When the returned log is non-empty the
// predicate slice is nil and nothing may be applied.
func Compile(data *document.Node, spec Spec, reg predicate.Registry) ([]Compiled, ErrorLog) {
	var log ErrorLog
	records := data.Elements()
	if !data.IsArray() {
		log.Add(MsgDataNotList)
	}

	active := make([]Compiled, 0, len(spec))
	for _, kc := range spec {
		build, ok := reg.Lookup(kc.Kind)
		if !ok {
			continue
		}
		var chosen *Constraint
		for i := range kc.Constraints {
			c := &kc.Constraints[i]
			if c.Value == nil || !presentInAll(records, c.Field) {
				log.Add(MsgFieldNotInData)
				continue
			}
			chosen = c
		}
		if chosen != nil {
			active = append(active, Compiled{
				Kind:  kc.Kind,
				Field: chosen.Field,
				Value: chosen.Value,
				Match: build(chosen.Field, chosen.Value),
			})
		}
	}

	if !log.Empty() {
		return nil, log
	}
	return active, nil
}

func presentInAll(records []*document.Node, field string) bool {
	for _, r := range records {
		if r.Get(field).IsNull() {
			return false
		}
	}
	return true
}
