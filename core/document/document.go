// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package document

import (
	"errors"

	"codeberg.org/pixivfe/localesync/core/tree"
)

// Top-level keys of a translation document.
const (
	MetaKey         = "meta"
	TranslationsKey = "translations"
)

var errTranslationsNotObject = errors.New(`"translations" is not an object`)

// Meta describes the language of a document. It is informational only and
// plays no part in synchronization.
type Meta struct {
	Code       string `yaml:"code"`
	Name       string `yaml:"name"`
	NativeName string `yaml:"nativeName"`
	Direction  string `yaml:"direction"`
}

// Document is a translation document held fully in memory.
//
// Root is the whole top-level object, so unknown top-level keys and their
// order survive a load/persist cycle.
type Document struct {
	ID   string
	Root *tree.Object
}

// New wraps root as the document id. It fails if root holds a
// "translations" value that is not an object.
func New(id string, root *tree.Object) (*Document, error) {
	if n, ok := root.Get(TranslationsKey); ok {
		if _, ok := n.Object(); !ok {
			return nil, errTranslationsNotObject
		}
	}

	return &Document{ID: id, Root: root}, nil
}

// Meta reads the "meta" object. Missing or non-string fields are empty.
func (d *Document) Meta() Meta {
	n, ok := d.Root.Get(MetaKey)
	if !ok {
		return Meta{}
	}

	m, ok := n.Object()
	if !ok {
		return Meta{}
	}

	field := func(key string) string {
		v, ok := m.Get(key)
		if !ok {
			return ""
		}

		s, _ := v.Text()

		return s
	}

	return Meta{
		Code:       field("code"),
		Name:       field("name"),
		NativeName: field("nativeName"),
		Direction:  field("direction"),
	}
}

// Translations returns the translation tree, adding an empty one at the end
// of the document if it has none.
func (d *Document) Translations() *tree.Object {
	if n, ok := d.Root.Get(TranslationsKey); ok {
		if o, ok := n.Object(); ok {
			return o
		}
	}

	o := tree.NewObject()
	d.Root.Set(TranslationsKey, tree.ObjectNode(o))

	return o
}
