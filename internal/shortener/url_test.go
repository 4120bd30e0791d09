package shortener_test

import (
	"strings"
	"testing"

	"github.com/serroba/shortlinks/internal/shortener"
	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{"https url", "https://example.com/a", true},
		{"http url with port", "http://example.com:8080/", true},
		{"query and fragment", "https://example.com/p?q=1&r=2#frag", true},
		{"uppercase scheme", "HTTPS://example.com", true},
		{"empty", "", false},
		{"relative path", "/just/a/path", false},
		{"missing scheme", "example.com", false},
		{"ftp scheme", "ftp://example.com/file", false},
		{"missing host", "https:///path", false},
		{"javascript", "javascript:alert(1)", false},
		{"too long", "https://example.com/" + strings.Repeat("a", shortener.MaxURLLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := shortener.ValidateURL(tt.url)

			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, shortener.ErrInvalidURL)
			}
		})
	}
}
