package utils

import "errors"

// Common application errors used across services.
var (
	ErrMissingToken       = errors.New("MISSING_TOKEN")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrSnapshotNotLoaded  = errors.New("SNAPSHOT_NOT_LOADED")
	ErrUpstreamNotReached = errors.New("UPSTREAM_NOT_REACHED")
)
