package config

import "errors"

// Error definitions for config package.
var (
	ErrConfigFileParse   = errors.New("failed to parse config file")
	ErrInvalidSuffix     = errors.New("container suffix must start with '.'")
	ErrConfigPathUnknown = errors.New("failed to determine config path")
)
