// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "codeberg.org/pixivfe/localesync/core/synchronize"

// Possible values for Run.ReportFormat.
const (
	ReportText = "text"
	ReportYAML = "yaml"
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Sync.LocalesDir = "./locales"
	cfg.Sync.ReferenceLang = "en"
	cfg.Sync.PlaceholderPrefix = synchronize.DefaultPlaceholderPrefix

	cfg.Run.DryRun = false
	cfg.Run.Check = false
	cfg.Run.ReportFormat = ReportText

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Internationalization.StrictMissingKeys = false
}
