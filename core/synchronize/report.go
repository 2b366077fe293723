// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package synchronize

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Status is the final state of one target document in a run.
type Status string

// Possible values for Status.
const (
	StatusWritten    Status = "written"
	StatusUnchanged  Status = "unchanged"
	StatusWouldWrite Status = "would-write" // dry run, nothing persisted
	StatusFailed     Status = "failed"
)

// DocumentReport is the outcome for a single target document.
type DocumentReport struct {
	ID     string `yaml:"id"`
	Status Status `yaml:"status"`

	// Added is the number of placeholder leaves grafted into the document.
	Added int `yaml:"added"`
	// Conflicts lists reference paths blocked by a non-object value.
	Conflicts []string `yaml:"conflicts,omitempty"`
	// Stale is the number of leaves that no longer exist in the reference.
	Stale int `yaml:"stale"`
	// Pending is the number of leaves still carrying the placeholder prefix.
	Pending int `yaml:"pending"`

	Err    error  `yaml:"-"`
	Reason string `yaml:"reason,omitempty"`
}

// Report aggregates a whole run.
type Report struct {
	Reference     string `yaml:"reference"`
	ReferenceKeys int    `yaml:"referenceKeys"`
	DryRun        bool   `yaml:"dryRun"`

	Examined  int `yaml:"examined"`
	Modified  int `yaml:"modified"`
	KeysAdded int `yaml:"keysAdded"`
	Failed    int `yaml:"failed"`

	Documents []DocumentReport `yaml:"documents"`
}

func (r *Report) add(d DocumentReport) {
	r.Examined++

	switch d.Status {
	case StatusWritten, StatusWouldWrite:
		r.Modified++
		r.KeysAdded += d.Added
	case StatusFailed:
		r.Failed++
	case StatusUnchanged:
	}

	if d.Err != nil {
		d.Reason = d.Err.Error()
	}

	r.Documents = append(r.Documents, d)
}

// InSync reports whether every examined document already held every
// reference key and none failed.
func (r *Report) InSync() bool {
	if r.KeysAdded > 0 || r.Failed > 0 {
		return false
	}

	for _, d := range r.Documents {
		if len(d.Conflicts) > 0 {
			return false
		}
	}

	return true
}

// WriteText writes a human-readable summary to w.
func (r *Report) WriteText(w io.Writer) error {
	var sb strings.Builder

	mode := ""
	if r.DryRun {
		mode = " (dry run)"
	}

	fmt.Fprintf(&sb, "Synchronized against %q (%d keys)%s\n\n", r.Reference, r.ReferenceKeys, mode)

	for _, d := range r.Documents {
		switch d.Status {
		case StatusFailed:
			fmt.Fprintf(&sb, "  %-12s failed: %s\n", d.ID, d.Reason)
		case StatusUnchanged:
			fmt.Fprintf(&sb, "  %-12s up to date", d.ID)
		case StatusWritten, StatusWouldWrite:
			fmt.Fprintf(&sb, "  %-12s %d added", d.ID, d.Added)
		}

		if d.Status != StatusFailed {
			fmt.Fprintf(&sb, ", %d pending", d.Pending)

			if d.Stale > 0 {
				fmt.Fprintf(&sb, ", %d stale", d.Stale)
			}

			if len(d.Conflicts) > 0 {
				fmt.Fprintf(&sb, ", %d skipped (%s)", len(d.Conflicts), strings.Join(d.Conflicts, ", "))
			}

			sb.WriteString("\n")
		}
	}

	verb := "modified"
	if r.DryRun {
		verb = "to modify"
	}

	fmt.Fprintf(&sb, "\n%d documents scanned, %d %s, %d keys added, %d failed\n",
		r.Examined, r.Modified, verb, r.KeysAdded, r.Failed)

	_, err := io.WriteString(w, sb.String())

	return err
}

// WriteYAML writes the report as YAML to w.
func (r *Report) WriteYAML(w io.Writer) error {
	return yaml.NewEncoder(w, yaml.Indent(2)).Encode(r)
}
