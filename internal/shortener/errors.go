package shortener

import "errors"

var (
	// ErrNotFound is returned by stores when a code has no mapping.
	ErrNotFound = errors.New("link not found")
	// ErrInvalidURL is returned when a destination is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrKeySpaceExhausted is returned when no unused code was found within the attempt budget.
	ErrKeySpaceExhausted = errors.New("key space exhausted")
	// ErrStorageUnavailable wraps any I/O failure of a backing store.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
