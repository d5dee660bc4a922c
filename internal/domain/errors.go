package domain

import "errors"

var (
	// ErrInvalidProduct is returned when a comparison is requested for a
	// product with an empty name. It is the only failure that surfaces to
	// the caller of a comparison.
	ErrInvalidProduct = errors.New("requested product must have a non-empty name")

	// ErrAuthenticationFailed is returned when a source rejects or cannot
	// complete its login flow. Non-fatal: the source is skipped.
	ErrAuthenticationFailed = errors.New("source authentication failed")

	// ErrRetrievalFailed is returned when a source's search fails for an
	// operational reason (network, page structure). Non-fatal: treated as
	// zero records from that source.
	ErrRetrievalFailed = errors.New("source retrieval failed")

	// ErrMalformedRecord is returned when a single candidate within a
	// source's results cannot be parsed. That candidate is dropped.
	ErrMalformedRecord = errors.New("malformed candidate record")

	// ErrSourceUnavailable is returned when a source's backing resource
	// (browser, HTTP endpoint) could not be acquired at all.
	ErrSourceUnavailable = errors.New("source unavailable")
)
