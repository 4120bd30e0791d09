package shortener

import (
	"net/url"
	"strings"
)

// MaxURLLength is the longest destination accepted.
const MaxURLLength = 2048

// ValidateURL checks that rawURL is an absolute http or https URL with a host.
// It returns ErrInvalidURL otherwise.
func ValidateURL(rawURL string) error {
	if rawURL == "" || len(rawURL) > MaxURLLength {
		return ErrInvalidURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ErrInvalidURL
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return ErrInvalidURL
	}

	if u.Host == "" || u.Hostname() == "" {
		return ErrInvalidURL
	}

	return nil
}
