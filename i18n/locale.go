// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sort"

	"golang.org/x/text/language"
)

// Languages returns the tags of the loaded documents.
//
// The returned slice is a copy, is sorted by tag string, and is safe to retain.
func (c *Catalog) Languages() []language.Tag {
	out := make([]language.Tag, len(c.tags))
	copy(out, c.tags)

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })

	return out
}

// Reference returns the tag of the reference document.
func (c *Catalog) Reference() language.Tag {
	return c.tags[0]
}

// resolve returns the index of the loaded document that best matches lang.
// Unparsable or unmatched input resolves to the reference.
func (c *Catalog) resolve(lang string) int {
	t, err := language.Parse(lang)
	if err != nil {
		return 0
	}

	_, index, confidence := c.matcher.Match(t)
	if confidence == language.No {
		return 0
	}

	return index
}
