// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package tree

import (
	"errors"
	"fmt"
	"strings"
)

// PathSeparator joins the segments of a Path in its text form.
const PathSeparator = "."

var (
	// ErrEmptyPath is returned when an operation needs at least one segment.
	ErrEmptyPath = errors.New("empty path")

	// ErrStructuralConflict is returned by SetPath when a value that is not an
	// object already occupies an intermediate segment of the path.
	ErrStructuralConflict = errors.New("structural conflict")
)

// Path is a sequence of keys leading from the root to a value.
type Path []string

// String returns the dotted form of p.
func (p Path) String() string {
	return strings.Join(p, PathSeparator)
}

// child returns a new Path with key appended. p itself is never modified,
// so sibling paths built from the same parent do not share a backing array.
func (p Path) child(key string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = key

	return out
}

// HasPath reports whether a value of any kind exists at p.
//
// It walks p segment by segment and returns false as soon as a segment is
// absent or the value reached before the last segment is not an object.
func HasPath(root *Object, p Path) bool {
	if root == nil || len(p) == 0 {
		return false
	}

	cur := root

	for _, seg := range p[:len(p)-1] {
		n, ok := cur.Get(seg)
		if !ok {
			return false
		}

		next, ok := n.Object()
		if !ok {
			return false
		}

		cur = next
	}

	_, ok := cur.Get(p[len(p)-1])

	return ok
}

// SetPath stores value at p, creating empty objects for absent intermediate
// segments. Whatever is stored at the last segment is replaced.
//
// If an intermediate segment holds a value that is not an object, SetPath
// returns an error wrapping ErrStructuralConflict and root is not modified.
func SetPath(root *Object, p Path, value Node) error {
	if len(p) == 0 {
		return ErrEmptyPath
	}

	// Check the whole walk first so a conflict never leaves behind
	// half-created intermediate objects.
	cur := root

	for i, seg := range p[:len(p)-1] {
		n, ok := cur.Get(seg)
		if !ok {
			break
		}

		next, ok := n.Object()
		if !ok {
			return fmt.Errorf("%w: %q holds a %s value, cannot descend to %q",
				ErrStructuralConflict, p[:i+1].String(), n.Kind(), p.String())
		}

		cur = next
	}

	cur = root

	for _, seg := range p[:len(p)-1] {
		if n, ok := cur.Get(seg); ok {
			cur, _ = n.Object()

			continue
		}

		next := NewObject()
		cur.Set(seg, ObjectNode(next))

		cur = next
	}

	cur.Set(p[len(p)-1], value)

	return nil
}
