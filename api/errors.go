package api

import "errors"

// Errors delivered by the remote loaders. They are wrapped with detail, so
// classify them with errors.Is.
var (
	// ErrConnectivity indicates no response was received.
	ErrConnectivity = errors.New("connectivity error")

	// ErrInvalidData indicates a response was received but failed validation.
	ErrInvalidData = errors.New("invalid data")
)
