package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource or request is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrConfiguration is returned when the process is missing required configuration
	// (credentials, templates...). It is not recoverable per request.
	ErrConfiguration = errors.New("configuration error")
	// ErrGeneration is returned when a task could not be generated for a participant.
	ErrGeneration = errors.New("generation error")
)
