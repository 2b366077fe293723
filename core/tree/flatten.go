// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package tree

// Entry is a single string leaf addressed by its path.
type Entry struct {
	Path  Path
	Value string
}

// PathValues maps dotted paths to string leaf values, in the order the
// leaves were found. It is not modified after Flatten returns.
type PathValues struct {
	entries []Entry
	index   map[string]int
}

// Flatten collects every string leaf under root depth-first, following each
// object's own key order. Values of KindOther are skipped.
func Flatten(root *Object) *PathValues {
	pv := &PathValues{index: make(map[string]int)}
	if root != nil {
		pv.walk(root, nil)
	}

	return pv
}

func (pv *PathValues) walk(o *Object, prefix Path) {
	for key, n := range o.All() {
		p := prefix.child(key)

		switch n.Kind() {
		case KindObject:
			child, _ := n.Object()
			pv.walk(child, p)
		case KindString:
			text, _ := n.Text()
			pv.add(p, text)
		case KindOther:
		}
	}
}

func (pv *PathValues) add(p Path, value string) {
	key := p.String()
	if i, ok := pv.index[key]; ok {
		// Two distinct segment sequences can only share a dotted form
		// when a segment contains the separator.
		pv.entries[i].Value = value

		return
	}

	pv.index[key] = len(pv.entries)
	pv.entries = append(pv.entries, Entry{Path: p, Value: value})
}

// Len returns the number of leaves.
func (pv *PathValues) Len() int {
	return len(pv.entries)
}

// Get returns the value stored at the dotted path.
func (pv *PathValues) Get(path string) (string, bool) {
	i, ok := pv.index[path]
	if !ok {
		return "", false
	}

	return pv.entries[i].Value, true
}

// Has reports whether a leaf exists at the dotted path.
func (pv *PathValues) Has(path string) bool {
	_, ok := pv.index[path]

	return ok
}

// Entries returns a copy of the leaves in traversal order.
func (pv *PathValues) Entries() []Entry {
	out := make([]Entry, len(pv.entries))
	copy(out, pv.entries)

	return out
}
