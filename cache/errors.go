package cache

import "errors"

var (
	// ErrBackendRequired indicates a cache was constructed without a backend.
	ErrBackendRequired = errors.New("backend is required")

	// ErrLookupRequired indicates a cache was constructed without an inner lookup.
	ErrLookupRequired = errors.New("inner lookup is required")

	// ErrNotFound indicates the key is not present in the cache.
	ErrNotFound = errors.New("not found in cache")
)
