package service

import (
	"errors"

	repository "github.com/okian/predboard/internal/adapters/repository"
)

var (
	// ErrMissingName is returned when a submission has no name.
	ErrMissingName = repository.ErrMissingName
	// ErrNoActuals is returned when a submission arrives before the admin
	// uploaded any actuals.
	ErrNoActuals = errors.New("no actuals uploaded yet")
)
