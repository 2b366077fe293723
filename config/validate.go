// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"codeberg.org/pixivfe/localesync/core/document"
)

// validation errors.
var (
	errEmptyLocalesDir      = errors.New("sync.localesDir cannot be empty")
	errLocalesDirNotDir     = errors.New("sync.localesDir is not a directory")
	errInvalidReferenceLang = errors.New("invalid sync.referenceLang")
	errEmptyPlaceholder     = errors.New("sync.placeholderPrefix cannot be empty")
	errInvalidReportFormat  = errors.New("invalid run.reportFormat")
	errInvalidLogLevel      = errors.New("invalid log.logLevel")
	errInvalidLogFormat     = errors.New("invalid log.logFormat")
)

// validateAndSet validates the configuration and populates derived fields.
func (cfg *Config) validateAndSet() error {
	if cfg.Sync.LocalesDir == "" {
		return errEmptyLocalesDir
	}

	info, err := os.Stat(cfg.Sync.LocalesDir)
	if err != nil {
		return fmt.Errorf("%w: %w", errLocalesDirNotDir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", errLocalesDirNotDir, cfg.Sync.LocalesDir)
	}

	if _, err := document.ParseLanguage(cfg.Sync.ReferenceLang); err != nil {
		return fmt.Errorf("%w: %w", errInvalidReferenceLang, err)
	}

	// A blank prefix would make inserted values indistinguishable from translations.
	if strings.TrimSpace(cfg.Sync.PlaceholderPrefix) == "" {
		return errEmptyPlaceholder
	}

	switch cfg.Run.ReportFormat {
	case ReportText, ReportYAML:
		// valid
	default:
		return fmt.Errorf("%w: %q", errInvalidReportFormat, cfg.Run.ReportFormat)
	}

	if cfg.Run.Check {
		cfg.Run.DryRun = true
	}

	if lvl, err := zerolog.ParseLevel(cfg.Log.Level); err != nil || lvl == zerolog.NoLevel {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
		// valid
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	return nil
}
