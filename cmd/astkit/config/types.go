// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the astkit command configuration from astkit.yaml.
package config

import (
	"github.com/AleutianAI/astkit/services/astkit/parse"
	"github.com/AleutianAI/astkit/services/astkit/telemetry"
)

// Config is the astkit.yaml document.
type Config struct {
	// Log: console and file logging
	Log LogConfig `yaml:"log"`

	// Parse: language selection and parser limits
	Parse ParseConfig `yaml:"parse"`

	// Walk: identifier walk options
	Walk WalkConfig `yaml:"walk"`

	// Telemetry: trace and metric exporters
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Output: result format
	Output OutputConfig `yaml:"output"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"` // e.g. info
	JSON  bool   `yaml:"json"`
	Quiet bool   `yaml:"quiet"`
	Dir   string `yaml:"dir,omitempty"` // e.g. ~/.astkit/logs
}

type ParseConfig struct {
	// Language overrides detection from the file extension.
	Language      string `yaml:"language,omitempty" validate:"omitempty,oneof=js jsx ts tsx dts"`
	ErrorRecovery bool   `yaml:"error_recovery"`
	MaxFileSize   int64  `yaml:"max_file_size" validate:"min=1"`  // bytes
	CacheCapacity int    `yaml:"cache_capacity" validate:"min=0"` // 0 disables the cache
	Concurrency   int    `yaml:"concurrency" validate:"min=1,max=256"`
}

type WalkConfig struct {
	IncludeAll bool `yaml:"include_all"`

	// KnownIDs are treated as declared, e.g. ["window", "document"].
	KnownIDs []string `yaml:"known_ids,omitempty" validate:"dive,required"`
}

type TelemetryConfig struct {
	TraceExporter   string `yaml:"trace_exporter" validate:"oneof=none stdout otlp"`
	MetricExporter  string `yaml:"metric_exporter" validate:"oneof=none stdout prometheus"`
	OTLPEndpoint    string `yaml:"otlp_endpoint,omitempty" validate:"required_if=TraceExporter otlp"`
	MetricsTextfile string `yaml:"metrics_textfile,omitempty"`
}

type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=text json yaml"`
	Color  string `yaml:"color" validate:"oneof=auto always never"`
}

// DefaultConfig returns the configuration used when no astkit.yaml exists.
func DefaultConfig() Config {
	tel := telemetry.DefaultConfig()
	return Config{
		Log: LogConfig{
			Level: "info",
		},
		Parse: ParseConfig{
			MaxFileSize:   parse.DefaultMaxFileSize,
			CacheCapacity: parse.DefaultCacheCapacity,
			Concurrency:   8,
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  tel.TraceExporter,
			MetricExporter: tel.MetricExporter,
			OTLPEndpoint:   tel.OTLPEndpoint,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
	}
}

// TelemetryConfig converts the telemetry section into a telemetry.Config.
func (c Config) TelemetryConfig(version string) telemetry.Config {
	tel := telemetry.DefaultConfig()
	tel.ServiceVersion = version
	tel.TraceExporter = c.Telemetry.TraceExporter
	tel.MetricExporter = c.Telemetry.MetricExporter
	if c.Telemetry.OTLPEndpoint != "" {
		tel.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	}
	return tel
}
