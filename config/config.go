// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"codeberg.org/pixivfe/localesync/core/synchronize"
)

const (
	envConfigFile     = "LOCALESYNC_CONFIGFILE"
	defaultConfigFile = "./localesync.yaml"
	fallbackYAMLFile  = "./localesync.yml"
)

// Config holds the application configuration.
type Config struct {
	Build buildInfo `yaml:"-"`

	Sync struct {
		// Directory holding one document per language, e.g. locales/en.json.
		LocalesDir string `env:"LOCALESYNC_LOCALES_DIR,overwrite" yaml:"localesDir"`
		// Id of the canonical document every other document is synchronized against.
		ReferenceLang string `env:"LOCALESYNC_REFERENCE_LANG,overwrite" yaml:"referenceLang"`
		// Tag prepended to values copied from the reference.
		PlaceholderPrefix string `env:"LOCALESYNC_PLACEHOLDER_PREFIX,overwrite" yaml:"placeholderPrefix"`
	} `yaml:"sync"`

	Run struct {
		DryRun bool `env:"LOCALESYNC_DRY_RUN,overwrite" yaml:"dryRun"`
		// Check implies DryRun and makes missing keys a failure.
		Check        bool   `env:"LOCALESYNC_CHECK,overwrite" yaml:"check"`
		ReportFormat string `env:"LOCALESYNC_REPORT_FORMAT,overwrite" yaml:"reportFormat"`
	} `yaml:"run"`

	Log struct {
		Level   string   `env:"LOCALESYNC_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"LOCALESYNC_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"LOCALESYNC_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Internationalization struct {
		// Strict mode for missing keys in lookups.
		//
		// When enabled, missing keys are logged (deduplicated per locale+key) and
		// visibly wrapped using markers.
		StrictMissingKeys bool `env:"LOCALESYNC_STRICT_MISSING_KEYS,overwrite" yaml:"strictMissingKeys"`
	} `yaml:"internationalization"`
}

// LoadConfig loads the configuration from defaults, the YAML configuration
// file, a .env file, the environment and finally the command line, in that
// order of increasing precedence.
//
// It returns the positional arguments left after flag parsing.
func (cfg *Config) LoadConfig(args []string) ([]string, error) {
	flags, err := parseCommandLineArgs(args)
	if err != nil {
		return nil, err
	}

	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (-config)
	// 2. Environment variable (LOCALESYNC_CONFIGFILE)
	// 3. Default path with fallback check
	var configFilePath string

	if flags.isSet("config") {
		configFilePath = flags.configFile
	} else if envVar := os.Getenv(envConfigFile); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = defaultConfigFile
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			if _, statErr := os.Stat(fallbackYAMLFile); statErr == nil {
				configFilePath = fallbackYAMLFile
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(configFilePath); err != nil {
		return nil, fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return nil, fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	flags.apply(cfg)

	if err := cfg.validateAndSet(); err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}

	if err := cfg.setupAudit(); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	cfg.print()

	return flags.args(), nil
}

// SyncOptions returns the options for a synchronize.Synchronizer.
func (cfg *Config) SyncOptions() synchronize.Options {
	return synchronize.Options{
		ReferenceLang:     cfg.Sync.ReferenceLang,
		PlaceholderPrefix: cfg.Sync.PlaceholderPrefix,
		DryRun:            cfg.Run.DryRun,
	}
}
