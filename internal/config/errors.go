package config

import "errors"

var (
	// ErrInvalidConfig wraps validation failures.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrLoadConfig wraps failures decoding env vars into Config.
	ErrLoadConfig = errors.New("cannot load configuration")
	// ErrConfigFile wraps failures reading the PREDBOARD_CONFIG file.
	ErrConfigFile = errors.New("cannot read configuration file")
)
