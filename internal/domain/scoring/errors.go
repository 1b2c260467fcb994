package scoring

import "errors"

// Sentinel kinds for accuracy computation.
var (
	ErrLengthMismatch = errors.New("actuals and predictions must have the same length")
	ErrEmptyInput     = errors.New("sequences must not be empty")
)
