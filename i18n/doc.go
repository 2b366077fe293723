// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n resolves dotted translation keys against a collection of
translation documents, the same documents kept in shape by package
synchronize.

# Quick start

	cat, err := i18n.Load(ctx, document.NewCollection("locales"), i18n.Options{Reference: "en"})
	...
	cat.Tr("pt-BR", "settings.theme.dark")
	cat.Tr("de", "files.count", "Count", 3) // "{{.Count}} Dateien"

The requested language is matched against the loaded documents with
golang.org/x/text/language, so "pt-BR" falls back to "pt" when only the
latter exists, and anything unknown falls back to the reference.

# Missing translations

A key absent from the matched document resolves to the reference value; a
key absent from the reference as well resolves to the key itself. When
StrictMissingKeys is enabled, such misses are logged once per locale+key and
the returned text is visibly wrapped as "⟦...⟧".

Values still carrying the synchronization placeholder are returned as they
are.

# Formatting

Values can include placeholders processed by text/template. Provide
substitutions as alternating key-value pairs to Tr.
*/
package i18n
