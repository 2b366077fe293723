// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
localesync keeps a directory of JSON translation documents in line with a
reference document.

Usage:

	localesync [-config path] [-locales-dir dir] [-reference lang] [-dry-run] [-check] [-report text|yaml]
	localesync [flags] lookup <lang> <key>
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/localesync/config"
	"codeberg.org/pixivfe/localesync/core/audit"
	"codeberg.org/pixivfe/localesync/core/document"
	"codeberg.org/pixivfe/localesync/core/synchronize"
	"codeberg.org/pixivfe/localesync/i18n"
)

const (
	exitOK     = 0
	exitFailed = 1
)

var (
	errUsage         = errors.New("usage: localesync [flags] lookup <lang> <key>")
	errUnknownAction = errors.New("unknown action")
	errCheckFailed   = errors.New("documents are not in sync with the reference")
)

// main is the entry point of the application.
func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes one invocation and returns the process exit code.
func run(args []string, stdout io.Writer) int {
	audit.SetDefaultLogger()

	var cfg config.Config

	rest, err := cfg.LoadConfig(args)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")

		return exitFailed
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case len(rest) == 0:
		err = synchronizeCollection(&cfg, stdout)
	case rest[0] == "lookup":
		err = lookup(ctx, &cfg, rest[1:], stdout)
	default:
		err = fmt.Errorf("%w %q", errUnknownAction, rest[0])
	}

	if err != nil {
		log.Error().Err(err).Msg("Application failed")

		return exitFailed
	}

	return exitOK
}

// synchronizeCollection performs one synchronization run and prints its report.
func synchronizeCollection(cfg *config.Config, stdout io.Writer) error {
	store := document.NewCollection(cfg.Sync.LocalesDir)

	report, err := synchronize.New(cfg.SyncOptions(), store).Run()
	if err != nil {
		return err
	}

	if cfg.Run.ReportFormat == config.ReportYAML {
		err = report.WriteYAML(stdout)
	} else {
		err = report.WriteText(stdout)
	}

	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.Run.Check && !report.InSync() {
		return errCheckFailed
	}

	return nil
}

// lookup prints the value resolved for a language and dotted key.
func lookup(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	if len(args) != 2 {
		return errUsage
	}

	cat, err := i18n.Load(ctx, document.NewCollection(cfg.Sync.LocalesDir), i18n.Options{
		Reference:         cfg.Sync.ReferenceLang,
		StrictMissingKeys: cfg.Internationalization.StrictMissingKeys,
	})
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}

	_, err = fmt.Fprintln(stdout, cat.Tr(args[0], args[1]))

	return err
}
