package ingest

import "errors"

// Sentinel kinds for ingest errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingHeader     = errors.New("header row with sample reference column not found")
)
