package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadLimit     = errors.New("limit must be a positive integer within bounds")
	ErrBadSentiment = errors.New("sentiment must be negative or positive")
)
