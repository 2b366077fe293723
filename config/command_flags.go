// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"os"
)

// commandFlags holds the parsed command line. Only flags given explicitly
// override values from other sources.
type commandFlags struct {
	fs *flag.FlagSet

	configFile        string
	localesDir        string
	referenceLang     string
	placeholderPrefix string
	reportFormat      string
	dryRun            bool
	check             bool
}

// parseCommandLineArgs defines and parses flags from args, which excludes the program name.
func parseCommandLineArgs(args []string) (*commandFlags, error) {
	f := &commandFlags{fs: flag.NewFlagSet("localesync", flag.ContinueOnError)}
	f.fs.SetOutput(os.Stderr)

	f.fs.StringVar(&f.configFile, "config", defaultConfigFile, "Path to a localesync configuration file in YAML format.")
	f.fs.StringVar(&f.localesDir, "locales-dir", "", "Directory holding the translation documents.")
	f.fs.StringVar(&f.referenceLang, "reference", "", "Id of the reference document, e.g. en.")
	f.fs.StringVar(&f.placeholderPrefix, "placeholder", "", "Tag prepended to values copied from the reference.")
	f.fs.StringVar(&f.reportFormat, "report", "", "Summary format: text or yaml.")
	f.fs.BoolVar(&f.dryRun, "dry-run", false, "Report what would change without writing any document.")
	f.fs.BoolVar(&f.check, "check", false, "Dry run that exits non-zero when any document is out of date.")

	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *commandFlags) isSet(name string) bool {
	set := false

	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})

	return set
}

func (f *commandFlags) args() []string {
	return f.fs.Args()
}

// apply copies the explicitly set flags into cfg.
func (f *commandFlags) apply(cfg *Config) {
	if f.isSet("locales-dir") {
		cfg.Sync.LocalesDir = f.localesDir
	}

	if f.isSet("reference") {
		cfg.Sync.ReferenceLang = f.referenceLang
	}

	if f.isSet("placeholder") {
		cfg.Sync.PlaceholderPrefix = f.placeholderPrefix
	}

	if f.isSet("report") {
		cfg.Run.ReportFormat = f.reportFormat
	}

	if f.isSet("dry-run") {
		cfg.Run.DryRun = f.dryRun
	}

	if f.isSet("check") {
		cfg.Run.Check = f.check
	}
}
