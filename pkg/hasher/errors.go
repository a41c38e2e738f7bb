package hasher

import "errors"

// ErrInvalidLength is returned when a non-positive length is requested
// for a salt or random string.
var ErrInvalidLength = errors.New("hasher: length must be positive")
