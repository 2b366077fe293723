// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package tree models the nested key/value content of a translation document
and converts it to and from dotted paths.

A tree is an [Object] whose values are [Node]s. A Node is one of three
variants: a string leaf, a nested Object, or an opaque value (arrays,
numbers, booleans, null) that is carried along but never synchronized.

# Paths

A [Path] addresses a single value, for example "settings.theme.dark".
Segments must not contain "." themselves; this is a property of the data,
not something the package checks.

	leaves := tree.Flatten(root)          // every string leaf, in document order
	ok := tree.HasPath(root, p)           // existence only, any kind
	err := tree.SetPath(root, p, value)   // graft, creating intermediate objects

SetPath never replaces an existing non-object value to make room for a
nested path. It returns [ErrStructuralConflict] instead and leaves the tree
as it was.
*/
package tree
