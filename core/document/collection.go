// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/pixivfe/localesync/core/tree"
)

// DefaultExt is the file extension of translation documents.
const DefaultExt = ".json"

var (
	// ErrUnreadable is returned when a document cannot be located, read or parsed.
	ErrUnreadable = errors.New("document unreadable")

	// ErrWriteFailed is returned when a document cannot be written back.
	ErrWriteFailed = errors.New("write failed")
)

// Collection is a directory of translation documents, one file per language.
//
// The document id is the file name without its extension, for example
// "pt-BR" for "pt-BR.json".
type Collection struct {
	Dir string
	Ext string
}

// NewCollection returns a Collection over dir using DefaultExt.
func NewCollection(dir string) Collection {
	return Collection{Dir: dir, Ext: DefaultExt}
}

func (c Collection) ext() string {
	if c.Ext == "" {
		return DefaultExt
	}

	return c.Ext
}

// Path returns the file path of the document id.
func (c Collection) Path(id string) string {
	return filepath.Join(c.Dir, id+c.ext())
}

// Load reads and parses the document id. All failures wrap ErrUnreadable.
func (c Collection) Load(id string) (*Document, error) {
	path := c.Path(id)

	data, err := os.ReadFile(path) // #nosec G304 -- documents live in the configured directory
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}

	root, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}

	doc, err := New(id, root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}

	return doc, nil
}

// LoadReference loads the document id and flattens its translations.
func (c Collection) LoadReference(id string) (Meta, *tree.PathValues, error) {
	doc, err := c.Load(id)
	if err != nil {
		return Meta{}, nil, err
	}

	return doc.Meta(), tree.Flatten(doc.Translations()), nil
}

// Persist encodes doc in canonical form and replaces its file.
//
// The new content is written to a temporary file in the same directory and
// renamed over the old one, so readers see either the old or the new file.
// All failures wrap ErrWriteFailed.
func (c Collection) Persist(doc *Document) error {
	path := c.Path(doc.ID)

	data, err := Encode(doc.Root)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}

	return nil
}

// Targets lists the ids of every document in the collection except exclude,
// sorted lexicographically.
//
// Only regular files with the collection's extension are considered, and
// their name must parse as a BCP 47 language tag (hyphens or underscores).
// Other files are logged and skipped. Each call reads the directory again.
func (c Collection) Targets(exclude string) ([]string, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read locales directory %s: %w", c.Dir, err)
	}

	ext := c.ext()
	ids := make([]string, 0, len(entries))

	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ext)
		if id == exclude {
			continue
		}

		if _, err := ParseLanguage(id); err != nil {
			log.Warn().
				Str("sys", "document").
				Err(err).
				Str("file", entry.Name()).
				Msg("Skipping file with invalid locale name")

			continue
		}

		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids, nil
}

// ParseLanguage parses a document id as a language tag. Underscores are
// accepted in place of hyphens, as in "pt_BR".
func ParseLanguage(id string) (language.Tag, error) {
	t, err := language.Parse(strings.ReplaceAll(id, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", id, err)
	}

	return t, nil
}
