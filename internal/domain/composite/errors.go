package composite

import "errors"

// Sentinel kinds for composite scoring errors.
var (
	ErrInvalidWeights = errors.New("invalid composite weights")
)
