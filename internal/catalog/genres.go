package catalog

import (
	"context"
	"fmt"
	"time"

	"bookbeat/internal/cache"
)

const genresCacheKey = "genres"

// GenreService serves the active genre set. The set is small and
// slowly-changing, so the whole list is cached with a coarse TTL.
type GenreService struct {
	store Store
	cache *cache.Cache
	ttl   time.Duration
}

func NewGenreService(store Store, c *cache.Cache, ttl time.Duration) *GenreService {
	return &GenreService{store: store, cache: c, ttl: ttl}
}

// Active returns the current genre set, cache-aside.
func (g *GenreService) Active(ctx context.Context) ([]Genre, error) {
	var cached []Genre
	if g.cache.GetJSON(ctx, genresCacheKey, &cached) {
		return cached, nil
	}

	genres, err := g.store.ListGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	g.cache.SetJSON(ctx, genresCacheKey, genres, g.ttl)
	return genres, nil
}

// ValidateIDs rejects any id outside the active set. Unknown ids are an
// input error, not something to silently drop.
func (g *GenreService) ValidateIDs(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	active, err := g.Active(ctx)
	if err != nil {
		return err
	}
	known := make(map[int]bool, len(active))
	for _, genre := range active {
		known[genre.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: %d", ErrUnknownGenre, id)
		}
	}
	return nil
}
