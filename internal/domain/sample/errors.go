package sample

import "errors"

// Sentinel kinds for sample processing errors.
var (
	// ErrEmptyGroup marks a single sample group with zero records.
	// Callers skip the sample and continue the batch.
	ErrEmptyGroup = errors.New("sample group cannot be empty")

	// ErrEmptyBatch marks an ingest whose input yielded no groups at all.
	ErrEmptyBatch = errors.New("batch contains no sample groups")
)
