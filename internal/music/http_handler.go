package music

import (
	"errors"
	"net/http"
	"strings"

	"bookbeat/internal/catalog"
	"bookbeat/internal/httpx"
	"bookbeat/internal/platform/spotify"

	"github.com/rs/zerolog"
)

type HTTPHandler struct {
	service *Service
	log     zerolog.Logger
}

func NewHTTPHandler(service *Service, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// GetRecommendedPlaylists handles GET /v1/music/recommended-playlists/{title}.
// The Spotify access token travels in Authorization and the refresh token in
// X-Refresh-Token; when the guard refreshed mid-request the new access token
// is handed back in X-Access-Token so the client can store it.
func (h *HTTPHandler) GetRecommendedPlaylists(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")
	if strings.TrimSpace(title) == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_INPUT", "Book title is required", nil)
		return
	}

	accessToken, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || accessToken == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Spotify access token required", nil)
		return
	}

	cred := &spotify.Credential{
		AccessToken:  accessToken,
		RefreshToken: r.Header.Get("X-Refresh-Token"),
	}

	playlists, err := h.service.RecommendPlaylists(r.Context(), title, cred)
	if err != nil {
		if errors.Is(err, spotify.ErrReauthRequired) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "SPOTIFY_REAUTH_REQUIRED", "Spotify authorization expired, please reconnect", nil)
			return
		}
		h.log.Error().Err(err).Str("title", title).Msg("playlist recommendation failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not recommend playlists", nil)
		return
	}
	if playlists == nil {
		playlists = []catalog.Playlist{}
	}

	if cred.AccessToken != accessToken {
		w.Header().Set("X-Access-Token", cred.AccessToken)
	}

	httpx.JSONSuccess(w, r, playlists, map[string]any{"count": len(playlists)})
}
