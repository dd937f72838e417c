package domain

import "errors"

var (
	// ErrUnknownDataset means a query key has no registry entry. This is a
	// configuration bug: fail fast, no retry, no fallback.
	ErrUnknownDataset = errors.New("unknown dataset key")
	// ErrMissingCredentials means a provider has no API key configured. The
	// gateway treats this as a designed degraded mode, not a failure.
	ErrMissingCredentials = errors.New("missing provider credentials")
	// ErrInvalidPayload means the provider responded but the payload failed
	// structural validation. Retrying will not fix it.
	ErrInvalidPayload = errors.New("invalid provider payload")
	ErrNotFound       = errors.New("not found")
	ErrRateLimited    = errors.New("rate limited")
)
