package music

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookbeat/internal/cache"
	"bookbeat/internal/catalog"
	"bookbeat/internal/platform/spotify"
	"bookbeat/internal/search"

	"github.com/rs/zerolog"
)

const (
	queriesPerBook  = 3
	hitsPerQuery    = 5
	maxWorkers      = 4
	perQueryTimeout = 10 * time.Second
)

// QuerySuggester produces playlist search queries for a book title.
type QuerySuggester interface {
	RecommendPlaylists(ctx context.Context, bookTitle string, n int) ([]string, error)
}

// PlaylistSearcher is the token-scoped slice of the music provider.
type PlaylistSearcher interface {
	SearchPlaylists(ctx context.Context, accessToken, query string, limit int) ([]spotify.PlaylistHit, error)
}

// Service recommends playlists matching the mood of a book. The pipeline is
// enrichment queries, fanned-out provider searches under the refresh guard,
// then catalog resolution of each surviving hit.
type Service struct {
	suggest  QuerySuggester
	searcher PlaylistSearcher
	guard    *spotify.Guard
	resolver *catalog.Resolver
	cache    *cache.Cache
	ttl      time.Duration
	log      zerolog.Logger
}

func NewService(suggest QuerySuggester, searcher PlaylistSearcher, guard *spotify.Guard, resolver *catalog.Resolver, c *cache.Cache, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		suggest:  suggest,
		searcher: searcher,
		guard:    guard,
		resolver: resolver,
		cache:    c,
		ttl:      ttl,
		log:      log,
	}
}

// RecommendPlaylists returns catalogued playlists matching bookTitle. The
// result is cached per title; cache hits never touch the provider, so they
// cost no token use. An expired credential is refreshed once by the guard;
// ErrReauthRequired surfaces to the caller, while single-query search
// failures only shrink the result.
func (s *Service) RecommendPlaylists(ctx context.Context, bookTitle string, cred *spotify.Credential) ([]catalog.Playlist, error) {
	key := "playlists:" + strings.ToLower(bookTitle)

	var cached []catalog.Playlist
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	queries, err := s.suggest.RecommendPlaylists(ctx, bookTitle, queriesPerBook)
	if err != nil {
		return nil, fmt.Errorf("playlist queries for %q: %w", bookTitle, err)
	}
	if len(queries) == 0 {
		return nil, nil
	}

	results := search.FanOut(ctx, queries, maxWorkers, perQueryTimeout, func(ctx context.Context, query string) ([]spotify.PlaylistHit, error) {
		var hits []spotify.PlaylistHit
		err := s.guard.Call(ctx, cred, func(token string) error {
			var searchErr error
			hits, searchErr = s.searcher.SearchPlaylists(ctx, token, query, hitsPerQuery)
			return searchErr
		})
		return hits, err
	})

	seen := make(map[string]bool)
	playlists := make([]catalog.Playlist, 0)
	for _, res := range results {
		if res.Err != nil {
			if errors.Is(res.Err, spotify.ErrReauthRequired) {
				return nil, res.Err
			}
			s.log.Warn().Err(res.Err).Str("query", res.Query).Msg("playlist search failed")
			continue
		}
		for _, hit := range res.Hits {
			if !hit.HasImage() || seen[hit.SpotifyID] {
				continue
			}
			seen[hit.SpotifyID] = true

			playlist, err := s.resolver.ResolvePlaylist(ctx, hit.SpotifyID, func(context.Context) (catalog.Playlist, error) {
				return catalog.Playlist{
					Name:        hit.Name,
					Description: hit.Description,
					ImageURL:    hit.ImageURL,
					URI:         hit.URI,
				}, nil
			})
			if err != nil {
				s.log.Warn().Err(err).Str("spotify_id", hit.SpotifyID).Msg("could not resolve playlist")
				continue
			}
			playlists = append(playlists, playlist)
		}
	}

	s.cache.SetJSON(ctx, key, playlists, s.ttl)
	return playlists, nil
}
