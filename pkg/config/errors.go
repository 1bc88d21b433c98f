package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidConfig is returned when the parsed struct fails its own validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNilPointer is returned when a nil pointer is provided to Load.
	ErrNilPointer = errors.New("nil pointer provided to config loader")
)
