package pubmed

import "errors"

var (
	// ErrEmptyQuery indicates a search was attempted with no query expression.
	ErrEmptyQuery = errors.New("query expression is empty")

	// ErrUnexpectedStatus indicates an E-utilities endpoint answered with a
	// non-2xx status code.
	ErrUnexpectedStatus = errors.New("unexpected status from e-utilities")

	// ErrInvalidMaxAttempts indicates a retry was configured with a
	// non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
