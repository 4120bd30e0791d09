package handlers

import (
	"context"
	"net/http"

	"github.com/serroba/shortlinks/internal/shortener"
	"go.uber.org/zap"
)

const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="5; url=/">
<title>Link not found</title>
</head>
<body>
<h1>Link not found</h1>
<p>This short link does not exist or has been deleted. You will be redirected to the home page in 5 seconds.</p>
<p><a href="/">Go now</a></p>
</body>
</html>
`

const errorPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Something went wrong</title>
</head>
<body>
<h1>Something went wrong</h1>
<p>Please try again later.</p>
</body>
</html>
`

// Redirect sends the client to the destination of a code. Misses and
// malformed codes get an HTML page, never an API error body.
func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	if !shortener.ValidCode(req.Code) {
		return htmlPage(http.StatusNotFound, notFoundPage), nil
	}

	url, ok, err := h.resolver.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		h.logger.Error("failed to resolve link", zap.String("code", req.Code), zap.Error(err))

		return htmlPage(http.StatusInternalServerError, errorPage), nil
	}

	if !ok {
		return htmlPage(http.StatusNotFound, notFoundPage), nil
	}

	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = url
	resp.Headers.CacheControl = "no-store"

	return resp, nil
}

func htmlPage(status int, page string) *RedirectResponse {
	resp := &RedirectResponse{Status: status, Body: []byte(page)}
	resp.Headers.ContentType = "text/html; charset=utf-8"
	resp.Headers.CacheControl = "no-store"

	return resp
}
