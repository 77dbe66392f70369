package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookbeat/internal/httpx"

	"github.com/rs/zerolog"
)

type HTTPHandler struct {
	resolver *Resolver
	genres   *GenreService
	enrich   Enricher
	log      zerolog.Logger
}

func NewHTTPHandler(resolver *Resolver, genres *GenreService, enrich Enricher, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{resolver: resolver, genres: genres, enrich: enrich, log: log}
}

type resolveBookRequest struct {
	ISBN          string  `json:"isbn" validate:"required,isbn"`
	Title         string  `json:"title" validate:"required,max=500"`
	Author        string  `json:"author" validate:"required,max=500"`
	Rating        float64 `json:"rating" validate:"gte=0,lte=5"`
	PublishedYear int     `json:"published_year"`
	PageCount     int     `json:"page_count"`
	ImageURL      string  `json:"image_url"`
}

// ResolveBook handles POST /v1/books/resolve. It returns the existing
// catalog row for the ISBN or creates one, enriching description and genres
// from the generative-text provider on first sight.
func (h *HTTPHandler) ResolveBook(w http.ResponseWriter, r *http.Request) {
	var req resolveBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}

	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid request", details)
		return
	}

	base := Book{
		ISBN:          req.ISBN,
		Title:         req.Title,
		Author:        req.Author,
		Rating:        req.Rating,
		PublishedYear: req.PublishedYear,
		PageCount:     req.PageCount,
		ImageURL:      req.ImageURL,
	}

	build := NewEnrichedBookBuilder(h.enrich, h.genres, h.log, base)
	book, err := h.resolver.ResolveBook(r.Context(), req.ISBN, build)
	if err != nil {
		if errors.Is(err, ErrUnknownGenre) {
			httpx.JSONError(w, r, http.StatusUnprocessableEntity, "UNKNOWN_GENRE", err.Error(), nil)
			return
		}
		h.log.Error().Err(err).Str("isbn", req.ISBN).Msg("resolve book failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not resolve book", nil)
		return
	}

	httpx.JSONSuccess(w, r, book, nil)
}

// ListGenres handles GET /v1/genres.
func (h *HTTPHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genres.Active(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list genres failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not load genres", nil)
		return
	}
	httpx.JSONSuccess(w, r, genres, nil)
}
