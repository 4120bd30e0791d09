package store

import (
	"errors"
	"fmt"

	"github.com/serroba/shortlinks/internal/shortener"
)

var errContention = errors.New("too many concurrent writers")

// unavailable tags a backend failure so callers can match shortener.ErrStorageUnavailable.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, shortener.ErrStorageUnavailable, err)
}
