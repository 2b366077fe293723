// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package synchronize

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/localesync/core/document"
	"codeberg.org/pixivfe/localesync/core/tree"
)

// Store gives access to the documents of a collection.
// document.Collection implements Store.
type Store interface {
	LoadReference(id string) (document.Meta, *tree.PathValues, error)
	Targets(exclude string) ([]string, error)
	Load(id string) (*document.Document, error)
	Persist(doc *document.Document) error
}

// Options configures a Synchronizer.
type Options struct {
	// ReferenceLang is the id of the canonical document.
	ReferenceLang string
	// PlaceholderPrefix is prepended to every value copied from the reference.
	PlaceholderPrefix string
	// DryRun computes the report without writing any document.
	DryRun bool
}

// Synchronizer brings every document of a Store in line with the reference.
//
// Documents are processed one at a time. The only state shared between them
// is the flattened reference, which is computed once and never modified.
type Synchronizer struct {
	opts   Options
	store  Store
	merger Merger
	logger zerolog.Logger
}

// New returns a Synchronizer over store.
func New(opts Options, store Store) *Synchronizer {
	return &Synchronizer{
		opts:   opts,
		store:  store,
		merger: Merger{Prefix: opts.PlaceholderPrefix},
		logger: log.With().Str("sys", "sync").Logger(),
	}
}

// Run performs one full pass over the collection.
//
// It returns an error only when the reference document cannot be loaded or
// the collection cannot be listed; in that case no target is touched.
// Failures of individual targets are recorded in the report.
func (s *Synchronizer) Run() (*Report, error) {
	refID := s.opts.ReferenceLang

	refMeta, refPaths, err := s.store.LoadReference(refID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference document: %w", err)
	}

	s.logger.Info().
		Str("reference", refID).
		Str("language", refMeta.Name).
		Int("keys", refPaths.Len()).
		Msg("Loaded reference document")

	ids, err := s.store.Targets(refID)
	if err != nil {
		return nil, fmt.Errorf("failed to list target documents: %w", err)
	}

	report := &Report{
		Reference:     refID,
		ReferenceKeys: refPaths.Len(),
		DryRun:        s.opts.DryRun,
	}

	for _, id := range ids {
		d := s.syncDocument(id, refPaths)

		ev := s.logger.Info()
		if d.Status == StatusFailed {
			ev = s.logger.Error().Err(d.Err)
		}

		ev.Str("document", id).
			Str("status", string(d.Status)).
			Int("added", d.Added).
			Int("pending", d.Pending).
			Msg("Processed document")

		report.add(d)
	}

	return report, nil
}

// syncDocument runs Loaded -> Diffed -> Merged -> {Written, Unchanged, Failed}
// for the document id.
func (s *Synchronizer) syncDocument(id string, refPaths *tree.PathValues) DocumentReport {
	logger := s.logger.With().Str("document", id).Logger()

	doc, err := s.store.Load(id)
	if err != nil {
		return DocumentReport{ID: id, Status: StatusFailed, Err: err}
	}

	translations := doc.Translations()
	before := tree.Flatten(translations)

	missing := MissingPaths(translations, refPaths)
	logger.Debug().Int("missing", len(missing)).Msg("Diffed document")

	res, err := s.merger.Apply(translations, missing)
	if err != nil {
		return DocumentReport{ID: id, Status: StatusFailed, Err: err}
	}

	for _, p := range res.Conflicts {
		logger.Debug().Str("path", p).Msg("Skipped path blocked by a non-object value")
	}

	d := DocumentReport{
		ID:        id,
		Added:     res.Inserted,
		Conflicts: res.Conflicts,
		Stale:     countStale(before, refPaths),
		Pending:   countPending(tree.Flatten(translations), s.opts.PlaceholderPrefix),
	}

	switch {
	case res.Inserted == 0:
		d.Status = StatusUnchanged
	case s.opts.DryRun:
		d.Status = StatusWouldWrite
	default:
		if err := s.store.Persist(doc); err != nil {
			// The merged tree is dropped; the file on disk is as it was.
			return DocumentReport{ID: id, Status: StatusFailed, Err: err}
		}

		d.Status = StatusWritten
	}

	return d
}
