package config

import "errors"

var (
	// ErrParsingConfig is returned when the environment cannot be parsed
	// into the config struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrNilPointer is returned when Load is given a nil target.
	ErrNilPointer = errors.New("nil pointer provided to config loader")
)
