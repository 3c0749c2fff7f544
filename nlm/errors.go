package nlm

import "errors"

var (
	// ErrEndpointRequired is returned when a client is built without a URL.
	ErrEndpointRequired = errors.New("endpoint URL required")

	// ErrUnexpectedStatus is returned for non-2xx service responses.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)
