// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package synchronize keeps a collection of translation documents structurally
consistent with one reference document.

For each target document, every string leaf of the reference that has no
value in the target is added, tagged with a placeholder prefix:

	{"a": {"b": "Ciao"}}  +  reference {"a": {"b": "Hello", "c": "Bye"}}
	=> {"a": {"b": "Ciao", "c": "[NEEDS TRANSLATION] Bye"}}

Existing values are never modified or removed. A document is only written
when at least one value was added, so a second run over the same collection
changes nothing.
*/
package synchronize
