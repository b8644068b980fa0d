// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up by Find.
const FileName = "astkit.yaml"

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New()

// Find returns the configuration file to load: explicit if set, otherwise
// ./astkit.yaml, otherwise ~/.astkit/astkit.yaml. It returns "" when
// nothing exists and explicit is empty.
func Find(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidates := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".astkit", FileName))
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads the file chosen by Find on top of DefaultConfig and validates
// the result.
//
// # Outputs
//
//   - Config: The merged configuration.
//   - string: The file that was read, "" when defaults were used.
//   - error: Read, decode or validation failure. An explicit path that does
//     not exist is an error; a missing default file is not.
func Load(explicit string) (Config, string, error) {
	cfg := DefaultConfig()
	path := Find(explicit)
	if path == "" {
		return cfg, "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, path, fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := Decode(bytes.NewReader(data), &cfg); err != nil {
		return cfg, path, fmt.Errorf("%s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, path, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// Decode merges the YAML document in r into cfg. Unknown keys are errors.
// An empty document leaves cfg unchanged.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse the config: %w", err)
	}
	return nil
}

// Validate checks cfg against its struct tags. The returned error wraps
// ErrInvalidConfig and names every failing field by its YAML path.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s: failed %q (value %v)", yamlPath(fe.Namespace()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

// yamlPath turns "Config.Parse.MaxFileSize" into "parse.max_file_size".
func yamlPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z' && !pluralSuffix(runes, i+1)
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// pluralSuffix reports whether runes[i] is the "s" closing an acronym
// plural such as "IDs".
func pluralSuffix(runes []rune, i int) bool {
	if runes[i] != 's' {
		return false
	}
	return i+1 == len(runes) || !unicode.IsLetter(runes[i+1])
}
