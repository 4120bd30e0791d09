package handlers

import "time"

// CreateLinkRequest is the request body for creating a short link.
type CreateLinkRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path?q=1#top" json:"url"`
	}
}

// CreateLinkResponse is the response for a successfully created short link.
type CreateLinkResponse struct {
	Headers struct {
		Location string `doc:"The short URL" header:"Location"`
	}
	Body LinkBody
}

// LinkBody describes a created link.
type LinkBody struct {
	Code      string    `doc:"The short code"     example:"x7k2p9"                     json:"code"`
	ShortURL  string    `doc:"The full short URL" example:"http://localhost:8888/x7k2p9" json:"shortUrl"`
	URL       string    `doc:"The destination"    example:"https://example.com"         json:"url"`
	CreatedAt time.Time `doc:"Creation time, UTC"                                       json:"createdAt"`
}

// RedirectRequest is the request for resolving a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"x7k2p9" path:"code"`
}

// RedirectResponse is either a 302 to the destination or an HTML error page.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location     string `header:"Location"`
		ContentType  string `header:"Content-Type"`
		CacheControl string `header:"Cache-Control"`
	}
	Body []byte
}

// HistoryEntry is one record of the history listing.
type HistoryEntry struct {
	Code      string    `json:"code"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListLinksResponse is the history listing, newest first.
type ListLinksResponse struct {
	Body struct {
		Count   int            `doc:"Number of records" json:"count"`
		Records []HistoryEntry `doc:"Newest first"      json:"records"`
	}
}

// DeleteLinkRequest identifies the link to delete.
type DeleteLinkRequest struct {
	Code string `doc:"The short code" example:"x7k2p9" path:"code" pattern:"^[0-9a-z]{6}$"`
}

// DeleteLinkResponse reports whether the link was deleted. On failure Status
// is 503 and Error carries a machine-readable tag.
type DeleteLinkResponse struct {
	Status int
	Body   struct {
		Deleted bool   `json:"deleted"`
		Code    string `json:"code"`
		Error   string `doc:"Failure tag" enum:"storage_unavailable" json:"error,omitempty"`
	}
}

// StatsResponse carries the only analytics the service keeps.
type StatsResponse struct {
	Body struct {
		Links int64 `doc:"Number of stored links" json:"links"`
	}
}
