// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"
)

// templateCache caches compiled templates per unique template text.
var templateCache sync.Map // key: text, value: *template.Template

// Vars holds named substitutions for a translated value.
type Vars map[string]any

// Tr returns the value stored at the dotted key for the language that best
// matches lang. If key-value pairs are provided, the value is formatted using
// text/template-style named placeholders.
//
// A key missing from the matched document falls back to the reference value,
// then to the key itself. In strict mode the fallback is visibly wrapped.
func (c *Catalog) Tr(lang, key string, kv ...any) string {
	index := c.resolve(lang)
	locale := strippedTagString(c.tags[index])

	text, found := c.values[index].Get(key)
	if !found {
		if index != 0 {
			text, found = c.values[0].Get(key)
		}

		if !found {
			text = key
		}

		if c.strict {
			c.logMissingOnce(locale, key)

			text = "⟦" + text + "⟧"
		}
	}

	return c.render(locale, text, v(kv...))
}

// Has reports whether the document matched by lang itself holds key,
// without any fallback.
func (c *Catalog) Has(lang, key string) bool {
	return c.values[c.resolve(lang)].Has(key)
}

// render formats s as a text/template using the provided data.
func (c *Catalog) render(locale, s string, data Vars) string {
	if !strings.Contains(s, "{{") {
		return s
	}

	var tmpl *template.Template
	if t, ok := templateCache.Load(s); ok {
		tmpl = t.(*template.Template)
	} else {
		var err error

		tmpl, err = template.New("msg").Option("missingkey=error").Parse(s)
		if err != nil {
			if c.strict {
				return "⟦" + s + "⟧"
			}

			c.logger.Warn().Err(err).Str("locale", locale).Str("text", s).Msg("Template parse error")

			return s
		}

		templateCache.Store(s, tmpl)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(data)); err != nil {
		if c.strict {
			return "⟦" + s + "⟧"
		}

		c.logger.Warn().Err(err).Str("locale", locale).Str("text", s).Msg("Template execute error")

		return s
	}

	return buf.String()
}

// v builds Vars from alternating key, value pairs.
// Panics on programmer error.
func v(kv ...any) Vars {
	if len(kv)%2 != 0 {
		panic("i18n.Tr: odd number of arguments, want key, value pairs")
	}

	m := make(Vars, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("i18n.Tr: key must be string")
		}

		m[k] = kv[i+1]
	}

	return m
}
