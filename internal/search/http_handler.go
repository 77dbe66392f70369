package search

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bookbeat/internal/cache"
	"bookbeat/internal/httpx"
	"bookbeat/internal/platform/openlibrary"

	"github.com/rs/zerolog"
)

const searchResultLimit = 10

// HTTPHandler serves raw book search, cache-aside per query.
type HTTPHandler struct {
	books BookSearcher
	cache *cache.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

func NewHTTPHandler(books BookSearcher, c *cache.Cache, ttl time.Duration, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{books: books, cache: c, ttl: ttl, log: log}
}

// SearchBooks handles GET /v1/books/search?q=. Results are cached per
// lowercased query so repeated searches skip the provider.
func (h *HTTPHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_INPUT", "Query parameter q is required", nil)
		return
	}

	hits, err := h.search(r.Context(), query)
	if err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("book search failed")
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Book search is unavailable", nil)
		return
	}
	if hits == nil {
		hits = []openlibrary.BookHit{}
	}

	httpx.JSONSuccess(w, r, hits, map[string]any{"count": len(hits)})
}

func (h *HTTPHandler) search(ctx context.Context, query string) ([]openlibrary.BookHit, error) {
	key := "booksearch:" + strings.ToLower(query)

	var cached []openlibrary.BookHit
	if h.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	hits, err := h.books.Search(ctx, query, searchResultLimit)
	if err != nil {
		return nil, err
	}
	h.cache.SetJSON(ctx, key, hits, h.ttl)
	return hits, nil
}
