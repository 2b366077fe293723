// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package synchronize

import (
	"errors"
	"strings"

	"codeberg.org/pixivfe/localesync/core/tree"
)

// DefaultPlaceholderPrefix marks a value copied from the reference that
// still needs a human translation.
const DefaultPlaceholderPrefix = "[NEEDS TRANSLATION] "

// MissingPaths returns the reference leaves that have no value at all in
// target, in reference order. Values are not compared.
func MissingPaths(target *tree.Object, reference *tree.PathValues) []tree.Entry {
	var missing []tree.Entry

	for _, e := range reference.Entries() {
		if !tree.HasPath(target, e.Path) {
			missing = append(missing, e)
		}
	}

	return missing
}

// MergeResult summarizes a single Merger.Apply call.
type MergeResult struct {
	Inserted int
	// Conflicts lists the dotted paths that could not be grafted because a
	// non-object value sits on the way.
	Conflicts []string
}

// Merger grafts placeholder values for missing paths into a target tree.
type Merger struct {
	Prefix string
}

// Apply inserts Prefix+value at every path of missing, in order.
//
// Existing values are never changed: paths blocked by a non-object value are
// skipped and reported in Conflicts.
func (m Merger) Apply(target *tree.Object, missing []tree.Entry) (MergeResult, error) {
	var res MergeResult

	for _, e := range missing {
		err := tree.SetPath(target, e.Path, tree.StringNode(m.Prefix+e.Value))

		switch {
		case err == nil:
			res.Inserted++
		case errors.Is(err, tree.ErrStructuralConflict):
			res.Conflicts = append(res.Conflicts, e.Path.String())
		default:
			return res, err
		}
	}

	return res, nil
}

// countPending returns how many string leaves of pv start with prefix.
func countPending(pv *tree.PathValues, prefix string) int {
	if prefix == "" {
		return 0
	}

	n := 0

	for _, e := range pv.Entries() {
		if strings.HasPrefix(e.Value, prefix) {
			n++
		}
	}

	return n
}

// countStale returns how many string leaves of target have no counterpart in reference.
func countStale(target, reference *tree.PathValues) int {
	n := 0

	for _, e := range target.Entries() {
		if !reference.Has(e.Path.String()) {
			n++
		}
	}

	return n
}
