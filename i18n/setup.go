// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"codeberg.org/pixivfe/localesync/core/document"
	"codeberg.org/pixivfe/localesync/core/tree"
)

// Loader reads the documents of a collection. document.Collection implements it.
type Loader interface {
	Targets(exclude string) ([]string, error)
	Load(id string) (*document.Document, error)
}

// Options configures Load.
type Options struct {
	// Reference is the id of the document used as fallback, e.g. "en".
	Reference string
	// StrictMissingKeys logs misses and wraps them in visible markers.
	StrictMissingKeys bool
}

// Catalog holds the flattened translations of every document of a collection.
// It is safe for concurrent use.
type Catalog struct {
	// tags[i] is the language of values[i]; index 0 is the reference.
	tags    []language.Tag
	ids     []string
	values  []*tree.PathValues
	matcher language.Matcher

	strict bool
	logger zerolog.Logger

	// missingKeyOnce deduplicates WARN logs for missing keys in strict mode.
	// The key is locale+"\x00"+key.
	missingKeyOnce sync.Map
}

// Load reads every document of src concurrently and builds a Catalog.
//
// The reference document must load; other documents that fail to load, or
// whose id is not a language tag, are logged and left out.
func Load(ctx context.Context, src Loader, opts Options) (*Catalog, error) {
	logger := log.With().Str("sys", "i18n").Logger()

	refTag, err := document.ParseLanguage(opts.Reference)
	if err != nil {
		return nil, err
	}

	targets, err := src.Targets(opts.Reference)
	if err != nil {
		return nil, err
	}

	ids := append([]string{opts.Reference}, targets...)
	docs := make([]*tree.PathValues, len(ids))
	loadErrs := make([]error, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			doc, err := src.Load(id)
			if err != nil {
				if i == 0 {
					return fmt.Errorf("failed to load reference document: %w", err)
				}

				loadErrs[i] = err

				return nil
			}

			docs[i] = tree.Flatten(doc.Translations())

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := &Catalog{
		strict: opts.StrictMissingKeys,
		logger: logger,
	}

	for i, id := range ids {
		if loadErrs[i] != nil {
			logger.Warn().Err(loadErrs[i]).Str("document", id).Msg("Skipping unreadable document")

			continue
		}

		t := refTag
		if i > 0 {
			// Targets only returns ids that parse.
			t, _ = document.ParseLanguage(id)
		}

		c.tags = append(c.tags, t)
		c.ids = append(c.ids, id)
		c.values = append(c.values, docs[i])

		logger.Debug().
			Str("locale", t.String()).
			Int("keys", docs[i].Len()).
			Msg("Loaded locale")
	}

	// The reference is first, which makes it the matcher's default.
	c.matcher = language.NewMatcher(c.tags)

	return c, nil
}
