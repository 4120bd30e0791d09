package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlinks/internal/ratelimit"
)

// RouteLimits are the per-route limits, per client and minute. Zero disables a limit.
type RouteLimits struct {
	CreatePerMinute int64
	DeletePerMinute int64
}

func routeLimit(perMinute int64) map[string]any {
	cfg := ratelimit.EndpointConfig{}
	if perMinute > 0 {
		cfg.Limits = []ratelimit.LimitConfig{{Window: time.Minute, Max: perMinute}}
	}

	return map[string]any{ratelimit.MetadataKey: cfg}
}

// RegisterRoutes registers the link API and the redirect route.
func RegisterRoutes(api huma.API, h *LinkHandler, limits RouteLimits) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-link",
		Method:        http.MethodPost,
		Path:          "/links",
		Summary:       "Create short link",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
		Metadata:      routeLimit(limits.CreatePerMinute),
	}, h.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "list-links",
		Method:      http.MethodGet,
		Path:        "/links",
		Summary:     "List recent links",
		Description: "Returns the most recently created links, newest first.",
		Tags:        []string{"Links"},
	}, h.ListLinks)

	huma.Register(api, huma.Operation{
		OperationID: "delete-link",
		Method:      http.MethodDelete,
		Path:        "/links/{code}",
		Summary:     "Delete short link",
		Tags:        []string{"Links"},
		Metadata:    routeLimit(limits.DeletePerMinute),
	}, h.DeleteLink)

	huma.Register(api, huma.Operation{
		OperationID: "stats",
		Method:      http.MethodGet,
		Path:        "/stats",
		Summary:     "Stored link count",
		Tags:        []string{"Links"},
	}, h.Stats)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to destination",
		Description: "Answers 302 to the destination, or an HTML page when the code is unknown.",
		Tags:        []string{"Redirect"},
	}, h.Redirect)
}
