// Package result models the processing result returned by the document
// backend as an ordered tree of JSON variants.
package result

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Kind identifies the variant held by a Node.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "null"
	}
}

// ErrTrailingData is returned by Parse when the input holds more than one JSON value.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// Node is one value in a result tree. Objects keep their keys in document
// order. A nil *Node behaves as an absent value for every accessor.
type Node struct {
	kind   Kind
	b      bool
	raw    string // number literal
	num    float64
	str    string
	keys   []string
	fields map[string]*Node
	items  []*Node
}

// Pair is a key/value member used to build objects.
type Pair struct {
	Key   string
	Value *Node
}

// KV builds a Pair.
func KV(key string, value *Node) Pair {
	return Pair{Key: key, Value: value}
}

// Null returns a JSON null.
func Null() *Node { return &Node{kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(v bool) *Node { return &Node{kind: KindBool, b: v} }

// String returns a JSON string.
func String(v string) *Node { return &Node{kind: KindString, str: v} }

// Number returns a JSON number.
func Number(v float64) *Node {
	return &Node{kind: KindNumber, num: v, raw: strconv.FormatFloat(v, 'g', -1, 64)}
}

// Object returns a JSON object with members in the given order. A repeated
// key keeps its first position and its last value.
func Object(members ...Pair) *Node {
	out := &Node{kind: KindObject, fields: make(map[string]*Node, len(members))}
	for _, m := range members {
		out.set(m.Key, m.Value)
	}
	return out
}

func (n *Node) set(key string, value *Node) {
	if value == nil {
		value = Null()
	}
	if _, exists := n.fields[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = value
}

// Kind reports the variant of n. A nil node reports KindNull.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

// IsObject reports whether n is a JSON object.
func (n *Node) IsObject() bool { return n.Kind() == KindObject }

// IsArray reports whether n is a JSON array.
func (n *Node) IsArray() bool { return n.Kind() == KindArray }

// IsNull reports whether n is null or absent.
func (n *Node) IsNull() bool { return n.Kind() == KindNull }

// Str returns the string value and whether n is a string.
func (n *Node) Str() (string, bool) {
	if n.Kind() != KindString {
		return "", false
	}
	return n.str, true
}

// Num returns the numeric value and whether n is a number.
func (n *Node) Num() (float64, bool) {
	if n.Kind() != KindNumber {
		return 0, false
	}
	return n.num, true
}

// Truth returns the boolean value and whether n is a boolean.
func (n *Node) Truth() (bool, bool) {
	if n.Kind() != KindBool {
		return false, false
	}
	return n.b, true
}

// Keys returns the object's keys in document order.
func (n *Node) Keys() []string {
	if n.Kind() != KindObject {
		return nil
	}
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Items returns the array elements.
func (n *Node) Items() []*Node {
	if n.Kind() != KindArray {
		return nil
	}
	out := make([]*Node, len(n.items))
	copy(out, n.items)
	return out
}

// Len returns the number of members of an object or elements of an array.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindObject:
		return len(n.keys)
	case KindArray:
		return len(n.items)
	default:
		return 0
	}
}

// Get returns the member stored under key. Non-objects have no members.
func (n *Node) Get(key string) (*Node, bool) {
	if n.Kind() != KindObject {
		return nil, false
	}
	v, ok := n.fields[key]
	return v, ok
}

// Has reports whether the object has a member named key.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Lookup descends through nested objects one key at a time. Any missing key or
// non-object intermediate yields false.
func (n *Node) Lookup(path ...string) (*Node, bool) {
	cur := n
	for _, key := range path {
		next, ok := cur.Get(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// With returns a copy of the object with key set to value. The receiver is
// left untouched. Non-object receivers are treated as an empty object.
func (n *Node) With(key string, value *Node) *Node {
	out := &Node{kind: KindObject, fields: make(map[string]*Node, n.Len()+1)}
	if n.IsObject() {
		out.keys = append(make([]string, 0, len(n.keys)+1), n.keys...)
		for k, v := range n.fields {
			out.fields[k] = v
		}
	}
	out.set(key, value)
	return out
}

// Without returns a copy of the object with key removed. Non-object receivers
// yield an empty object.
func (n *Node) Without(key string) *Node {
	out := &Node{kind: KindObject, fields: make(map[string]*Node, n.Len())}
	for _, k := range n.Keys() {
		if k != key {
			out.set(k, n.fields[k])
		}
	}
	return out
}

// Parse decodes a single JSON document into a Node.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := decode(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return n, nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(s string) *Node {
	n, err := Parse([]byte(s))
	if err != nil {
		panic(fmt.Sprintf("result.MustParse: %v", err))
	}
	return n
}

func decode(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			obj := &Node{kind: KindObject, fields: map[string]*Node{}}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, want string", kt)
				}
				child, err := decode(dec)
				if err != nil {
					return nil, err
				}
				obj.set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := &Node{kind: KindArray, items: []*Node{}}
			for dec.More() {
				child, err := decode(dec)
				if err != nil {
					return nil, err
				}
				arr.items = append(arr.items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(v))
	case string:
		return String(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", v.String(), err)
		}
		return &Node{kind: KindNumber, num: f, raw: v.String()}, nil
	case bool:
		return Bool(v), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// MarshalJSON encodes n, keeping object keys in document order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes data into n.
func (n *Node) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

func (n *Node) encode(buf *bytes.Buffer) error {
	switch n.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(n.b))
	case KindNumber:
		buf.WriteString(n.raw)
	case KindString:
		b, err := json.Marshal(n.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, it := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(b)
			buf.WriteByte(':')
			if err := n.fields[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}
