// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers defaults, an optional YAML file, and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"github.com/palate/palate/internal/domain/composite"
	"github.com/palate/palate/internal/domain/sample"
)

// DefaultMaxUploadBytes bounds a single score file upload.
const DefaultMaxUploadBytes = 10 << 20 // 10 MiB

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// GroupCap bounds the number of consumer records processed per sample.
	GroupCap int `koanf:"group_cap"`

	// MaxUploadBytes bounds the size of a single score file upload.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// CompositeWeights sets the per-trait contribution to the composite
	// score. The four weights must sum to 1.0.
	CompositeWeights composite.Weights `koanf:"composite_weights"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":8080",
		GroupCap:         sample.DefaultGroupCap,
		MaxUploadBytes:   DefaultMaxUploadBytes,
		CompositeWeights: composite.DefaultWeights(),
	}
}
