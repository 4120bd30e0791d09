package shortener

import "time"

// Code represents a short URL code.
type Code string

// Link is the authoritative code -> url mapping held by a LinkStore.
type Link struct {
	Code Code
	URL  string
}

// HistoryRecord is the audit copy of a created link kept by a HistoryLog.
type HistoryRecord struct {
	Code      Code      `json:"code"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidCode reports whether s has the shape of a short code.
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}

	for i := range len(s) {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') {
			return false
		}
	}

	return true
}
