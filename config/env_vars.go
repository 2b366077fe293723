// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	dotEnvFile                  = ".env"
	maxEnvironmentKeyValueParts = 2
	minQuotedValueLength        = 2
)

var (
	errExpectedPointerToStruct = errors.New("expected a pointer to a struct")
	errUnsupportedFieldType    = errors.New("unsupported field type")
)

// envField is a struct field carrying an `env:"NAME[,overwrite]"` tag.
type envField struct {
	value     reflect.Value
	name      string // Go field name, for error messages
	envVar    string
	overwrite bool
}

// envFields collects the tagged fields of the struct v points to, descending
// into nested structs that have no tag of their own.
func envFields(v reflect.Value) ([]envField, error) {
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %s", errExpectedPointerToStruct, v.Kind())
	}

	var out []envField

	var walk func(s reflect.Value)

	walk = func(s reflect.Value) {
		t := s.Type()

		for i := range s.NumField() {
			field := s.Field(i)
			tag := t.Field(i).Tag.Get("env")

			if tag == "" {
				if field.Kind() == reflect.Struct {
					walk(field)
				}

				continue
			}

			if !field.CanSet() {
				continue
			}

			parts := strings.Split(tag, ",")
			out = append(out, envField{
				value:     field,
				name:      t.Field(i).Name,
				envVar:    parts[0],
				overwrite: slices.Contains(parts[1:], "overwrite"),
			})
		}
	}

	walk(v.Elem())

	return out, nil
}

// readEnv populates the struct dst points to from environment variables.
//
// Fields without the overwrite option are only set while they still hold
// their zero value.
func readEnv(dst any) error {
	fields, err := envFields(reflect.ValueOf(dst))
	if err != nil {
		return err
	}

	for _, f := range fields {
		raw, ok := os.LookupEnv(f.envVar)
		if !ok {
			continue
		}

		if !f.overwrite && !f.value.IsZero() {
			continue
		}

		if err := f.set(raw); err != nil {
			return err
		}
	}

	return nil
}

func (f envField) set(raw string) error {
	switch f.value.Kind() {
	case reflect.String:
		f.value.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("failed to parse bool for %s from env var %s (%s): %w", f.name, f.envVar, raw, err)
		}

		f.value.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse int for %s from env var %s (%s): %w", f.name, f.envVar, raw, err)
		}

		f.value.SetInt(n)
	case reflect.Slice:
		if f.value.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("%w for field %s: slice of %s", errUnsupportedFieldType, f.name, f.value.Type().Elem().Kind())
		}

		var items []string

		for item := range strings.SplitSeq(raw, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				items = append(items, trimmed)
			}
		}

		f.value.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("%w for field %s: %s", errUnsupportedFieldType, f.name, f.value.Kind())
	}

	return nil
}

// useDotEnv loads variables from a .env file in the working directory.
// Variables already present in the environment are left alone.
//
// A missing file is not an error.
func useDotEnv() error {
	data, err := os.ReadFile(dotEnvFile)
	if os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		log.Warn().
			Err(err).
			Str("path", dotEnvFile).
			Msg("Could not read .env file")

		return nil
	}

	for lineNumber, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", maxEnvironmentKeyValueParts)
		if len(parts) != maxEnvironmentKeyValueParts {
			log.Warn().
				Str("path", dotEnvFile).
				Int("line", lineNumber+1).
				Str("content", line).
				Msg("Invalid format in .env file")

			continue
		}

		key, value := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		// Strip matching quotes; quoting is the only way to keep edge spaces,
		// e.g. LOCALESYNC_PLACEHOLDER_PREFIX="[TODO] ".
		if len(value) >= minQuotedValueLength && value[0] == value[len(value)-1] && (value[0] == '"' || value[0] == '\'') {
			value = value[1 : len(value)-1]
		}

		if _, set := os.LookupEnv(key); set {
			continue
		}

		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("could not set %s from %s: %w", key, dotEnvFile, err)
		}
	}

	log.Debug().
		Str("path", dotEnvFile).
		Msg("Loaded configuration from .env file")

	return nil
}
