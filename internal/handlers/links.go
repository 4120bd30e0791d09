package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlinks/internal/shortener"
	"go.uber.org/zap"
)

const tagStorageUnavailable = "storage_unavailable"

// LinkHandler serves the short link API on top of the core services.
type LinkHandler struct {
	baseURL  string
	shorten  *shortener.Shortener
	resolver *shortener.Resolver
	deletion *shortener.DeletionCoordinator
	history  shortener.HistoryLog
	links    shortener.LinkStore
	logger   *zap.Logger
}

// NewLinkHandler creates the link handler. baseURL is prefixed to codes to
// build short URLs.
func NewLinkHandler(
	baseURL string,
	shorten *shortener.Shortener,
	resolver *shortener.Resolver,
	deletion *shortener.DeletionCoordinator,
	history shortener.HistoryLog,
	links shortener.LinkStore,
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		baseURL:  baseURL,
		shorten:  shorten,
		resolver: resolver,
		deletion: deletion,
		history:  history,
		links:    links,
		logger:   logger,
	}
}

func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	if err := shortener.ValidateURL(req.Body.URL); err != nil {
		return nil, huma.Error400BadRequest("url must be an absolute http or https URL",
			&huma.ErrorDetail{Location: "body.url", Value: req.Body.URL})
	}

	rec, err := h.shorten.Shorten(ctx, req.Body.URL)
	if err != nil {
		if errors.Is(err, shortener.ErrKeySpaceExhausted) {
			h.logger.Error("key space exhausted", zap.Error(err))

			return nil, huma.Error503ServiceUnavailable("no short code available, try again later")
		}

		h.logger.Error("failed to create link", zap.Error(err))

		return nil, huma.Error503ServiceUnavailable("storage unavailable")
	}

	resp := &CreateLinkResponse{}
	resp.Body = h.linkBody(rec)
	resp.Headers.Location = resp.Body.ShortURL

	return resp, nil
}

func (h *LinkHandler) ListLinks(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	records, err := h.history.List(ctx)
	if err != nil {
		h.logger.Error("failed to list history", zap.Error(err))

		return nil, huma.Error503ServiceUnavailable("storage unavailable")
	}

	resp := &ListLinksResponse{}
	resp.Body.Count = len(records)
	resp.Body.Records = make([]HistoryEntry, 0, len(records))

	for _, r := range records {
		resp.Body.Records = append(resp.Body.Records, HistoryEntry{
			Code:      string(r.Code),
			URL:       r.URL,
			CreatedAt: r.CreatedAt,
		})
	}

	return resp, nil
}

func (h *LinkHandler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*DeleteLinkResponse, error) {
	resp := &DeleteLinkResponse{Status: http.StatusOK}
	resp.Body.Code = req.Code

	if err := h.deletion.Delete(ctx, shortener.Code(req.Code)); err != nil {
		h.logger.Error("failed to delete link", zap.String("code", req.Code), zap.Error(err))

		resp.Status = http.StatusServiceUnavailable
		resp.Body.Error = tagStorageUnavailable

		return resp, nil
	}

	resp.Body.Deleted = true

	return resp, nil
}

func (h *LinkHandler) Stats(ctx context.Context, _ *struct{}) (*StatsResponse, error) {
	n, err := h.links.Count(ctx)
	if err != nil {
		h.logger.Error("failed to count links", zap.Error(err))

		return nil, huma.Error503ServiceUnavailable("storage unavailable")
	}

	resp := &StatsResponse{}
	resp.Body.Links = n

	return resp, nil
}

func (h *LinkHandler) linkBody(rec *shortener.HistoryRecord) LinkBody {
	return LinkBody{
		Code:      string(rec.Code),
		ShortURL:  h.baseURL + "/" + string(rec.Code),
		URL:       rec.URL,
		CreatedAt: rec.CreatedAt,
	}
}
