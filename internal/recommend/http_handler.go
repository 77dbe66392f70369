package recommend

import (
	"context"
	"net/http"
	"strconv"

	"bookbeat/internal/catalog"
	"bookbeat/internal/entity"
	"bookbeat/internal/httpx"

	"github.com/rs/zerolog"
)

// HistoryRepo loads the user's shelf as the history snapshot for scoring.
type HistoryRepo interface {
	ListByUserID(ctx context.Context, userID string) ([]entity.UserBook, error)
}

type HTTPHandler struct {
	engine  *Engine
	history HistoryRepo
	log     zerolog.Logger
}

func NewHTTPHandler(engine *Engine, history HistoryRepo, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{engine: engine, history: history, log: log}
}

// GetRecommendations handles GET /v1/recommendations?have=N where N is the
// size of the recommendation set the client already shows, so "load more"
// requests do not replay the same page.
func (h *HTTPHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	have, _ := strconv.Atoi(r.URL.Query().Get("have"))
	if have < 0 {
		have = 0
	}

	rows, err := h.history.ListByUserID(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("load history failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not load reading history", nil)
		return
	}

	history := make([]HistoryItem, len(rows))
	for i, row := range rows {
		rating := row.Rating
		if row.MyRating > 0 {
			rating = row.MyRating
		}
		history[i] = HistoryItem{
			ISBN:          row.ISBN,
			Title:         row.Title,
			Author:        row.Author,
			Rating:        rating,
			IsFavorite:    row.IsFavorite,
			ReadingStatus: row.ReadingStatus,
			AddedAt:       row.CreatedAt,
		}
	}

	books, err := h.engine.Recommend(r.Context(), userID, history, have)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("recommendation pipeline failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not build recommendations", nil)
		return
	}
	if books == nil {
		// an empty page is [], not null
		books = []catalog.Book{}
	}

	httpx.JSONSuccess(w, r, books, map[string]any{"count": len(books)})
}
