// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "codeberg.org/pixivfe/localesync/core/audit"

// setupAudit initializes logging with the provided configuration.
func (cfg *Config) setupAudit() error {
	return audit.Configure(cfg.Log.Level, cfg.Log.Outputs, cfg.Log.Format)
}
