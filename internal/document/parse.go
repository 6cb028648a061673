package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseError reports a request body that is not valid JSON text.
type ParseError struct {
	Offset int64 // input offset reached when decoding stopped
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("document: malformed JSON at offset %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// errTrailingData is wrapped by ParseError when text follows the first value.
var errTrailingData = errors.New("unexpected data after top-level value")

// Parse parses an optional request body.
//
// A nil body, a body holding only whitespace and the JSON literal null all
// yield a nil node and a nil error: the document is absent. Anything that is
// not exactly one JSON value fails with a *ParseError.
func Parse(body *string) (*Node, error) {
	if body == nil || strings.TrimSpace(*body) == "" {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(*body))
	dec.UseNumber()

	root, err := decodeValue(dec)
	if err != nil {
		return nil, &ParseError{Offset: dec.InputOffset(), Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errTrailingData
		}
		return nil, &ParseError{Offset: dec.InputOffset(), Err: err}
	}
	if root.kind == Null {
		return nil, nil
	}
	return root, nil
}

// MustParse parses text and panics on malformed input. Intended for tests and
// static fixtures.
func MustParse(text string) *Node {
	n, err := Parse(&text)
	if err != nil {
		panic(err)
	}
	if n == nil {
		return &Node{kind: Null}
	}
	return n
}

func decodeValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch v := tok.(type) {
	case nil:
		return &Node{kind: Null}, nil
	case bool:
		return &Node{kind: Bool, boolean: v}, nil
	case json.Number:
		return &Node{kind: Number, text: string(v)}, nil
	case string:
		return &Node{kind: String, text: v}, nil
	case json.Delim:
		switch v {
		case '[':
			return decodeArray(dec)
		case '{':
			return decodeObject(dec)
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeArray(dec *json.Decoder) (*Node, error) {
	n := &Node{kind: Array, elems: []*Node{}}
	for dec.More() {
		elem, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		n.elems = append(n.elems, elem)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return n, nil
}

func decodeObject(dec *json.Decoder) (*Node, error) {
	n := &Node{kind: Object, members: []Member{}, index: map[string]int{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		// Duplicate keys: last value wins, first position is kept.
		if i, dup := n.index[key]; dup {
			n.members[i].Value = value
			continue
		}
		n.index[key] = len(n.members)
		n.members = append(n.members, Member{Key: key, Value: value})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return n, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
