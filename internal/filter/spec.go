package filter

import "github.com/TimurManjosov/recordfilter/internal/document"

// Constraint is one field named under a predicate kind. Value is nil when the
// condition named the field without an expected value.
type Constraint struct {
	Field string
	Value *document.Node
}

// KindConstraints groups the constraints written under one kind key.
type KindConstraints struct {
	Kind        string
	Constraints []Constraint
}

// Spec is the condition object reshaped into kind -> field -> value, in
// document order. A Spec is not modified after BuildSpec returns.
type Spec []KindConstraints

// BuildSpec reshapes a condition node. Each kind key may hold an object of
// field/value pairs or an array mixing bare field names and objects. Object
// values nested under a field are flattened into further field/value pairs.
// A kind holding a scalar or null has no children and contributes no
// constraints. A condition that is not an object yields an empty Spec.
func BuildSpec(condition *document.Node) Spec {
	spec := Spec{}
	for _, m := range condition.Members() {
		c := &constraintSet{}
		switch v := m.Value; {
		case v.IsObject():
			for _, fm := range v.Members() {
				if fm.Value.IsObject() {
					c.flatten(fm.Value)
					continue
				}
				c.put(fm.Key, fm.Value)
			}
		case v.IsArray():
			for _, elem := range v.Elements() {
				switch {
				case elem.IsObject():
					c.flatten(elem)
				case elem.IsScalar():
					c.put(elem.Text(), nil)
				}
			}
		}
		spec = append(spec, KindConstraints{Kind: m.Key, Constraints: c.list})
	}
	return spec
}

// constraintSet keeps insertion order; re-putting a field replaces its value
// in place.
type constraintSet struct {
	list []Constraint
	pos  map[string]int
}

func (c *constraintSet) put(field string, value *document.Node) {
	if value.IsNull() {
		value = nil
	}
	if c.pos == nil {
		c.pos = map[string]int{}
	}
	if i, ok := c.pos[field]; ok {
		c.list[i].Value = value
		return
	}
	c.pos[field] = len(c.list)
	c.list = append(c.list, Constraint{Field: field, Value: value})
}

func (c *constraintSet) flatten(obj *document.Node) {
	for _, m := range obj.Members() {
		c.put(m.Key, m.Value)
	}
}
