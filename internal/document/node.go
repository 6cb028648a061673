// Package document provides an immutable, order-preserving JSON tree used as the
// request model of the filter service.
//
// Objects keep their members in document order and numbers keep their literal
// text, so a record serialized back with Pretty looks like the record that was
// received.
package document

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
)

// Kind identifies the JSON type of a Node.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

var kindNames = [...]string{
	Null:   "null",
	Bool:   "bool",
	Number: "number",
	String: "string",
	Array:  "array",
	Object: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Member is one key/value pair of an object node.
type Member struct {
	Key   string
	Value *Node
}

// Node is a parsed JSON value. Nodes are never mutated after Parse returns.
type Node struct {
	kind    Kind
	boolean bool
	text    string // string content, or number literal
	elems   []*Node
	members []Member
	index   map[string]int // key -> position in members
}

// Kind reports the JSON type of n. A nil node reports Null.
func (n *Node) Kind() Kind {
	if n == nil {
		return Null
	}
	return n.kind
}

// IsNull reports whether n is absent or the JSON literal null.
func (n *Node) IsNull() bool { return n == nil || n.kind == Null }

// IsObject reports whether n is a JSON object.
func (n *Node) IsObject() bool { return n != nil && n.kind == Object }

// IsArray reports whether n is a JSON array.
func (n *Node) IsArray() bool { return n != nil && n.kind == Array }

// IsScalar reports whether n is a string, number, boolean or null.
func (n *Node) IsScalar() bool { return !n.IsObject() && !n.IsArray() }

// Get returns the member value stored under key, or nil when n is not an
// object or has no such member. A member explicitly set to null is returned as
// a Null node; use IsNull to treat both cases alike.
func (n *Node) Get(key string) *Node {
	if !n.IsObject() {
		return nil
	}
	i, ok := n.index[key]
	if !ok {
		return nil
	}
	return n.members[i].Value
}

// Index returns the i-th element of an array node, or nil when out of range.
func (n *Node) Index(i int) *Node {
	if !n.IsArray() || i < 0 || i >= len(n.elems) {
		return nil
	}
	return n.elems[i]
}

// Len returns the number of elements or members, zero for scalars.
func (n *Node) Len() int {
	switch n.Kind() {
	case Array:
		return len(n.elems)
	case Object:
		return len(n.members)
	}
	return 0
}

// Elements returns the elements of an array node in order.
// The returned slice must not be modified.
func (n *Node) Elements() []*Node {
	if !n.IsArray() {
		return nil
	}
	return n.elems
}

// Members returns the members of an object node in document order.
// The returned slice must not be modified.
func (n *Node) Members() []Member {
	if !n.IsObject() {
		return nil
	}
	return n.members
}

// IsIntegral reports whether n is a number written without a fraction or
// exponent.
func (n *Node) IsIntegral() bool {
	return n.Kind() == Number && isIntegral(n.text)
}

// Text returns a plain textual form of a scalar: string content without
// quotes, number literal, "true"/"false" or "null". Containers return their
// compact JSON encoding.
func (n *Node) Text() string {
	switch n.Kind() {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(n.boolean)
	case Number, String:
		return n.text
	}
	b, _ := n.MarshalJSON()
	return string(b)
}

// Equal reports structural equality. Values of different JSON types are never
// equal. Integral and fractional numbers are different types: 1 != 1.0.
// Objects compare by member set, independent of member order.
func (n *Node) Equal(o *Node) bool {
	if n.Kind() != o.Kind() {
		return false
	}
	switch n.Kind() {
	case Null:
		return true
	case Bool:
		return n.boolean == o.boolean
	case String:
		return n.text == o.text
	case Number:
		return numbersEqual(n.text, o.text)
	case Array:
		if len(n.elems) != len(o.elems) {
			return false
		}
		for i := range n.elems {
			if !n.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(n.index) != len(o.index) {
			return false
		}
		for key := range n.index {
			other := o.Get(key)
			if other == nil || !n.Get(key).Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}

func isIntegral(lit string) bool {
	return !strings.ContainsAny(lit, ".eE")
}

func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}
	ai, bi := isIntegral(a), isIntegral(b)
	if ai != bi {
		return false
	}
	if ai {
		x, okx := new(big.Int).SetString(a, 10)
		y, oky := new(big.Int).SetString(b, 10)
		return okx && oky && x.Cmp(y) == 0
	}
	x, errx := strconv.ParseFloat(a, 64)
	y, erry := strconv.ParseFloat(b, 64)
	return errx == nil && erry == nil && x == y
}

// MarshalJSON encodes n compactly, keeping member order and number literals.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encode(buf *bytes.Buffer) error {
	switch n.Kind() {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(n.boolean))
	case Number:
		buf.WriteString(n.text)
	case String:
		if err := writeQuoted(buf, n.text); err != nil {
			return err
		}
	case Array:
		buf.WriteByte('[')
		for i, e := range n.elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range n.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeQuoted(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// writeQuoted writes s as a JSON string without escaping HTML characters.
func writeQuoted(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	return nil
}

// Pretty returns n as two-space indented JSON text.
func (n *Node) Pretty() string {
	compact, err := n.MarshalJSON()
	if err != nil {
		return ""
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return string(compact)
	}
	return out.String()
}
