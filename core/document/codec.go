// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"codeberg.org/pixivfe/localesync/core/tree"
)

// Indent is the indentation used by the canonical form.
const Indent = "    "

var (
	errInvalidJSON   = errors.New("invalid JSON")
	errRootNotObject = errors.New("top-level value is not an object")
)

// canonicalOptions keeps keys in document order. A zero Width puts every
// array element on its own line.
var canonicalOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   Indent,
	SortKeys: false,
}

// Decode parses a JSON object into a tree, keeping the key order of the input.
//
// Strings become string leaves, objects become nested objects and every other
// value is kept verbatim as an Other node. When a key is repeated, the last
// value wins and keeps the position of the first occurrence.
func Decode(data []byte) (*tree.Object, error) {
	if !gjson.ValidBytes(data) {
		return nil, errInvalidJSON
	}

	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil, errRootNotObject
	}

	n := fromResult(res)
	root, _ := n.Object()

	return root, nil
}

func fromResult(res gjson.Result) tree.Node {
	switch {
	case res.IsObject():
		o := tree.NewObject()

		res.ForEach(func(key, value gjson.Result) bool {
			o.Set(key.String(), fromResult(value))

			return true
		})

		return tree.ObjectNode(o)
	case res.Type == gjson.String:
		return tree.DecodedStringNode(res.Str, []byte(res.Raw))
	default:
		return tree.OtherNode([]byte(res.Raw))
	}
}

// Encode renders root in canonical form: keys in tree order, four space
// indentation and a trailing newline. HTML characters are not escaped.
func Encode(root *tree.Object) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := appendObject(&buf, enc, root); err != nil {
		return nil, err
	}

	out := pretty.PrettyOptions(buf.Bytes(), canonicalOptions)
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}

	return out, nil
}

// appendObject writes compact JSON for o into buf. The output may contain
// newlines left by enc; they are dropped when the result is prettified.
func appendObject(buf *bytes.Buffer, enc *json.Encoder, o *tree.Object) error {
	buf.WriteByte('{')

	first := true

	for key, n := range o.All() {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		if err := enc.Encode(key); err != nil {
			return fmt.Errorf("failed to encode key %q: %w", key, err)
		}

		buf.WriteByte(':')

		if err := appendNode(buf, enc, n); err != nil {
			return fmt.Errorf("failed to encode value of %q: %w", key, err)
		}
	}

	buf.WriteByte('}')

	return nil
}

func appendNode(buf *bytes.Buffer, enc *json.Encoder, n tree.Node) error {
	switch n.Kind() {
	case tree.KindString:
		if raw := n.Raw(); len(raw) > 0 {
			buf.Write(raw)

			return nil
		}

		text, _ := n.Text()

		return enc.Encode(text)
	case tree.KindObject:
		o, _ := n.Object()

		return appendObject(buf, enc, o)
	case tree.KindOther:
		raw := n.Raw()
		if len(raw) == 0 {
			buf.WriteString("null")

			return nil
		}

		buf.Write(raw)
	}

	return nil
}
