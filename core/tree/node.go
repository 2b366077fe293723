// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package tree

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies which variant a Node holds.
type Kind uint8

// Possible values for Kind.
const (
	// KindOther covers arrays, numbers, booleans and null.
	// Such values are never synchronization candidates.
	KindOther Kind = iota
	KindString
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindObject:
		return "object"
	default:
		return "other"
	}
}

// Node is a single value in a translation tree.
//
// The zero Node is an Other holding no raw text.
type Node struct {
	kind Kind
	text string
	obj  *Object
	raw  []byte
}

// StringNode returns a string leaf.
func StringNode(s string) Node {
	return Node{kind: KindString, text: s}
}

// ObjectNode returns an interior node wrapping o.
func ObjectNode(o *Object) Node {
	return Node{kind: KindObject, obj: o}
}

// DecodedStringNode returns a string leaf read from a document. raw is the
// quoted JSON source of the value and is written back verbatim, so escapes
// that have no exact Go string form, such as lone surrogates, survive a rewrite.
func DecodedStringNode(s string, raw []byte) Node {
	return Node{kind: KindString, text: s, raw: raw}
}

// OtherNode returns an opaque value. raw must be valid JSON and is kept verbatim.
func OtherNode(raw []byte) Node {
	return Node{kind: KindOther, raw: raw}
}

// Kind reports the variant held by n.
func (n Node) Kind() Kind {
	return n.kind
}

// Text returns the leaf text and true if n is a string leaf.
func (n Node) Text() (string, bool) {
	return n.text, n.kind == KindString
}

// Object returns the mapping and true if n is an interior node.
func (n Node) Object() (*Object, bool) {
	return n.obj, n.kind == KindObject
}

// Raw returns the verbatim JSON of an Other value or of a decoded string
// leaf, or nil when n has no source text.
func (n Node) Raw() []byte {
	if n.kind == KindObject {
		return nil
	}

	return n.raw
}

// Object is a mapping from string keys to nodes that remembers insertion order.
//
// The zero Object is empty and ready to use.
type Object struct {
	m *orderedmap.OrderedMap[string, Node]
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{m: orderedmap.New[string, Node]()}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o.m == nil {
		return 0
	}

	return o.m.Len()
}

// Get returns the node stored under key.
func (o *Object) Get(key string) (Node, bool) {
	if o.m == nil {
		return Node{}, false
	}

	return o.m.Get(key)
}

// Set stores n under key. A new key is appended; an existing key keeps its position.
func (o *Object) Set(key string, n Node) {
	if o.m == nil {
		o.m = orderedmap.New[string, Node]()
	}

	o.m.Set(key, n)
}

// Keys returns the keys in order.
func (o *Object) Keys() []string {
	out := make([]string, 0, o.Len())
	for k := range o.All() {
		out = append(out, k)
	}

	return out
}

// All iterates over the entries in order.
func (o *Object) All() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		if o.m == nil {
			return
		}

		for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}
