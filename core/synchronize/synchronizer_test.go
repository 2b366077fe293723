// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package synchronize

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/localesync/core/document"
	"codeberg.org/pixivfe/localesync/core/tree"
)

const referenceEN = `{
    "meta": {"code": "en", "name": "English", "nativeName": "English", "direction": "ltr"},
    "translations": {
        "a": {"b": "Hello", "c": "Bye"},
        "menu": {"file": {"open": "Open", "close": "Close"}},
        "title": "Title"
    }
}`

// newCollection writes files into a fresh directory and returns a collection over it.
func newCollection(t *testing.T, files map[string]string) document.Collection {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return document.NewCollection(dir)
}

func readFile(t *testing.T, c document.Collection, id string) string {
	t.Helper()

	data, err := os.ReadFile(c.Path(id))
	require.NoError(t, err)

	return string(data)
}

func failedDocuments(r *Report) []DocumentReport {
	var out []DocumentReport

	for _, d := range r.Documents {
		if d.Status == StatusFailed {
			out = append(out, d)
		}
	}

	return out
}

func newSynchronizer(store Store) *Synchronizer {
	return New(Options{ReferenceLang: "en", PlaceholderPrefix: DefaultPlaceholderPrefix}, store)
}

func TestRun_ScenarioA(t *testing.T) {
	t.Parallel()

	c := newCollection(t, map[string]string{
		"en.json": `{"meta":{"code":"en"},"translations":{"a":{"b":"Hello","c":"Bye"}}}`,
		"it.json": `{"meta":{"code":"it"},"translations":{"a":{"b":"Ciao"}}}`,
	})

	report, err := newSynchronizer(c).Run()
	require.NoError(t, err)

	assert.Equal(t, 1, report.Examined)
	assert.Equal(t, 1, report.Modified)
	assert.Equal(t, 1, report.KeysAdded)

	want := `{
    "meta": {
        "code": "it"
    },
    "translations": {
        "a": {
            "b": "Ciao",
            "c": "[NEEDS TRANSLATION] Bye"
        }
    }
}
`
	assert.Equal(t, want, readFile(t, c, "it"))
}

func TestRun_ScenarioB_CompleteDocumentIsNotRewritten(t *testing.T) {
	t.Parallel()

	// Deliberately non-canonical formatting: a rewrite would be visible.
	complete := `{"meta":{"code":"de"},"translations":{"title":"Titel","a":{"c":"Tschüss","b":"Hallo"},
	"menu":{"file":{"close":"Schließen","open":"Öffnen"}}}}`

	c := newCollection(t, map[string]string{"en.json": referenceEN, "de.json": complete})

	report, err := newSynchronizer(c).Run()
	require.NoError(t, err)

	assert.Equal(t, 1, report.Examined)
	assert.Equal(t, 0, report.Modified)
	assert.Equal(t, 0, report.KeysAdded)
	require.Len(t, report.Documents, 1)
	assert.Equal(t, StatusUnchanged, report.Documents[0].Status)

	assert.Equal(t, complete, readFile(t, c, "de"))
}

func TestRun_ScenarioC_UnparsableTargetIsIsolated(t *testing.T) {
	t.Parallel()

	c := newCollection(t, map[string]string{
		"en.json": referenceEN,
		"de.json": `{"translations": {"a": `,
		"fr.json": `{"translations": {}}`,
		"it.json": `{"translations": {"title": "Titolo"}}`,
	})

	report, err := newSynchronizer(c).Run()
	require.NoError(t, err)

	assert.Equal(t, 3, report.Examined)
	assert.Equal(t, 2, report.Modified)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 5+4, report.KeysAdded, "keys of the failed document are not counted")

	failures := failedDocuments(report)
	require.Len(t, failures, 1)
	assert.Equal(t, "de", failures[0].ID)
	assert.ErrorIs(t, failures[0].Err, document.ErrUnreadable)
	assert.NotEmpty(t, failures[0].Reason)

	assert.Equal(t, `{"translations": {"a": `, readFile(t, c, "de"), "failed document is left as it was")

	ids := make([]string, 0, len(report.Documents))
	for _, d := range report.Documents {
		ids = append(ids, d.ID)
	}

	assert.Equal(t, []string{"de", "fr", "it"}, ids, "documents are processed in lexicographic order")
}

func TestRun_ScenarioD_StringWhereObjectExpected(t *testing.T) {
	t.Parallel()

	c := newCollection(t, map[string]string{
		"en.json": referenceEN,
		"es.json": `{"translations": {"a": "plano", "title": "Título"}}`,
	})

	report, err := newSynchronizer(c).Run()
	require.NoError(t, err)
	require.Len(t, report.Documents, 1)

	d := report.Documents[0]
	assert.Equal(t, StatusWritten, d.Status)
	assert.Equal(t, 2, d.Added)
	assert.Equal(t, []string{"a.b", "a.c"}, d.Conflicts)
	assert.NoError(t, d.Err)

	doc, err := c.Load("es")
	require.NoError(t, err)

	got := tree.Flatten(doc.Translations())

	v, _ := got.Get("a")
	assert.Equal(t, "plano", v, "the string is kept")

	v, _ = got.Get("menu.file.open")
	assert.Equal(t, "[NEEDS TRANSLATION] Open", v, "siblings are still synchronized")
}

func TestRun_PropertiesAcrossTwoRuns(t *testing.T) {
	t.Parallel()

	targets := map[string]string{
		"de.json": `{"meta":{"code":"de"},"translations":{"zz":"Letzte","a":{"c":"Tschüss","extra":"Mehr"},"title":"[NEEDS TRANSLATION] Title"}}`,
		"fr.json": `{"meta":{"code":"fr"},"translations":{}}`,
		"ja.json": `{"translations":{"menu":{"file":{"close":"閉じる"}},"a":{"b":"こんにちは"}}}`,
	}

	files := map[string]string{"en.json": referenceEN}
	for k, v := range targets {
		files[k] = v
	}

	c := newCollection(t, files)

	before := make(map[string]*tree.PathValues)
	beforeOrder := make(map[string][]string)

	for name := range targets {
		id := strings.TrimSuffix(name, ".json")

		doc, err := c.Load(id)
		require.NoError(t, err)

		before[id] = tree.Flatten(doc.Translations())
		beforeOrder[id] = doc.Translations().Keys()
	}

	first, err := newSynchronizer(c).Run()
	require.NoError(t, err)
	assert.Equal(t, 3, first.Modified)

	_, ref, err := c.LoadReference("en")
	require.NoError(t, err)

	for id, prev := range before {
		doc, err := c.Load(id)
		require.NoError(t, err)

		translations := doc.Translations()
		after := tree.Flatten(translations)

		// Conservation.
		for _, e := range prev.Entries() {
			v, ok := after.Get(e.Path.String())
			assert.True(t, ok, "%s: %s was removed", id, e.Path)
			assert.Equal(t, e.Value, v, "%s: %s was altered", id, e.Path)
		}

		// Coverage and placeholder tagging.
		for _, e := range ref.Entries() {
			assert.True(t, tree.HasPath(translations, e.Path), "%s: %s missing", id, e.Path)

			if !prev.Has(e.Path.String()) {
				v, _ := after.Get(e.Path.String())
				assert.Equal(t, DefaultPlaceholderPrefix+e.Value, v)
			}
		}

		// Order stability of pre-existing siblings.
		keys := translations.Keys()
		assert.Equal(t, beforeOrder[id], keys[:len(beforeOrder[id])], "%s: existing keys moved", id)
	}

	snapshot := make(map[string]string)
	for name := range targets {
		id := strings.TrimSuffix(name, ".json")
		snapshot[id] = readFile(t, c, id)
	}

	// Idempotence.
	second, err := newSynchronizer(c).Run()
	require.NoError(t, err)

	assert.Equal(t, 0, second.KeysAdded)
	assert.Equal(t, 0, second.Modified)

	for id, content := range snapshot {
		assert.Equal(t, content, readFile(t, c, id), "%s was rewritten", id)
	}
}

func TestRun_ReferenceUnreadableIsFatal(t *testing.T) {
	t.Parallel()

	tests := map[string]map[string]string{
		"missing":  {"de.json": `{"translations":{}}`},
		"invalid":  {"en.json": `{`, "de.json": `{"translations":{}}`},
		"not JSON": {"en.json": `meta: yaml`, "de.json": `{"translations":{}}`},
	}

	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newCollection(t, files)

			report, err := newSynchronizer(c).Run()
			require.Error(t, err)
			assert.ErrorIs(t, err, document.ErrUnreadable)
			assert.Nil(t, report)

			assert.Equal(t, `{"translations":{}}`, readFile(t, c, "de"))
		})
	}
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	t.Parallel()

	c := newCollection(t, map[string]string{
		"en.json": referenceEN,
		"fr.json": `{"translations":{}}`,
	})

	s := New(Options{ReferenceLang: "en", PlaceholderPrefix: DefaultPlaceholderPrefix, DryRun: true}, c)

	report, err := s.Run()
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Modified)
	assert.Equal(t, 5, report.KeysAdded)
	assert.Equal(t, StatusWouldWrite, report.Documents[0].Status)
	assert.Equal(t, `{"translations":{}}`, readFile(t, c, "fr"))
}

// failingStore persists nothing for the ids in fail.
type failingStore struct {
	document.Collection

	fail map[string]bool
}

var errDiskFull = errors.New("disk full")

func (f failingStore) Persist(doc *document.Document) error {
	if f.fail[doc.ID] {
		return errors.Join(document.ErrWriteFailed, errDiskFull)
	}

	return f.Collection.Persist(doc)
}

func TestRun_WriteFailureIsIsolated(t *testing.T) {
	t.Parallel()

	c := newCollection(t, map[string]string{
		"en.json": referenceEN,
		"de.json": `{"translations":{"title":"Titel"}}`,
		"fr.json": `{"translations":{"title":"Titre"}}`,
	})

	report, err := newSynchronizer(failingStore{Collection: c, fail: map[string]bool{"de": true}}).Run()
	require.NoError(t, err)

	assert.Equal(t, 2, report.Examined)
	assert.Equal(t, 1, report.Modified)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 4, report.KeysAdded)

	failures := failedDocuments(report)
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0].Err, document.ErrWriteFailed)
	assert.Zero(t, failures[0].Added)

	assert.Equal(t, `{"translations":{"title":"Titel"}}`, readFile(t, c, "de"))
	assert.Contains(t, readFile(t, c, "fr"), `"Titre"`)
}

func TestReport_Output(t *testing.T) {
	t.Parallel()

	r := &Report{Reference: "en", ReferenceKeys: 3}
	r.add(DocumentReport{ID: "de", Status: StatusWritten, Added: 2, Pending: 2, Stale: 1})
	r.add(DocumentReport{ID: "fr", Status: StatusUnchanged})
	r.add(DocumentReport{ID: "it", Status: StatusFailed, Err: errDiskFull})
	r.add(DocumentReport{ID: "es", Status: StatusWritten, Added: 1, Conflicts: []string{"a.b"}})

	assert.Equal(t, 4, r.Examined)
	assert.Equal(t, 2, r.Modified)
	assert.Equal(t, 3, r.KeysAdded)
	assert.Equal(t, 1, r.Failed)

	var text bytes.Buffer
	require.NoError(t, r.WriteText(&text))

	out := text.String()
	assert.Contains(t, out, `Synchronized against "en" (3 keys)`)
	assert.Contains(t, out, "de           2 added, 2 pending, 1 stale\n")
	assert.Contains(t, out, "fr           up to date, 0 pending\n")
	assert.Contains(t, out, "it           failed: disk full\n")
	assert.Contains(t, out, "es           1 added, 0 pending, 1 skipped (a.b)\n")
	assert.Contains(t, out, "4 documents scanned, 2 modified, 3 keys added, 1 failed")

	var y bytes.Buffer
	require.NoError(t, r.WriteYAML(&y))
	assert.Contains(t, y.String(), "keysAdded: 3")
	assert.Contains(t, y.String(), "reason: disk full")
	assert.NotContains(t, y.String(), "err:")
}

func TestReport_InSync(t *testing.T) {
	t.Parallel()

	r := &Report{}
	r.add(DocumentReport{ID: "fr", Status: StatusUnchanged})
	assert.True(t, r.InSync())

	conflicted := &Report{}
	conflicted.add(DocumentReport{ID: "es", Status: StatusUnchanged, Conflicts: []string{"a.b"}})
	assert.False(t, conflicted.InSync())

	r.add(DocumentReport{ID: "de", Status: StatusWouldWrite, Added: 1})
	assert.False(t, r.InSync())
}

// referenceStore serves a fixed reference and counts how often it is asked for it.
type referenceStore struct {
	document.Collection

	paths *tree.PathValues
	calls *int
}

func (r referenceStore) LoadReference(string) (document.Meta, *tree.PathValues, error) {
	*r.calls++

	return document.Meta{Name: "Fixture"}, r.paths, nil
}

func TestRun_UsesStoreReference(t *testing.T) {
	t.Parallel()

	// No en.json on disk: the reference only exists in the store.
	c := newCollection(t, map[string]string{"de.json": `{"translations":{"a":"A"}}`})

	calls := 0
	store := referenceStore{
		Collection: c,
		paths:      tree.Flatten(mustDecode(t, `{"a":"Ay","b":"Bee"}`)),
		calls:      &calls,
	}

	report, err := newSynchronizer(store).Run()
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, report.ReferenceKeys)
	assert.Equal(t, 1, report.KeysAdded)
	assert.Contains(t, readFile(t, c, "de"), `"b": "[NEEDS TRANSLATION] Bee"`)
}

func TestRun_ExistingValuesAreKeptVerbatim(t *testing.T) {
	t.Parallel()

	c := newCollection(t, map[string]string{
		"en.json": `{"translations":{"a":"Smile","h":"<b>Bold</b>","b":"New"}}`,
		"it.json": `{"translations":{"a":"x\ud83d","h":"<b>Grassetto</b>"}}`,
	})

	report, err := newSynchronizer(c).Run()
	require.NoError(t, err)
	require.Equal(t, 1, report.KeysAdded)

	want := `{
    "translations": {
        "a": "x\ud83d",
        "h": "<b>Grassetto</b>",
        "b": "[NEEDS TRANSLATION] New"
    }
}
`
	assert.Equal(t, want, readFile(t, c, "it"))
}
