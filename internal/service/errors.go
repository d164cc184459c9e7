package service

import "errors"

// Workflow errors. Handlers map these onto the HTTP status taxonomy; anything
// else coming out of the service is an upstream failure and stays generic to
// the client.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)
