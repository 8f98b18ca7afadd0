package catalog

import "errors"

var (
	// ErrSourceUnavailable means the external source could not be reached
	// at all. Fatal to a sync run; no writes are attempted.
	ErrSourceUnavailable = errors.New("catalog source unavailable")

	// ErrAuth means the source rejected our credentials.
	ErrAuth = errors.New("catalog source rejected credentials")

	// ErrMalformedResponse means the source answered with a shape we could
	// not decode.
	ErrMalformedResponse = errors.New("malformed catalog source response")
)
