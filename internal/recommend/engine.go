package recommend

import (
	"context"
	"fmt"
	"time"

	"bookbeat/internal/cache"
	"bookbeat/internal/catalog"
	"bookbeat/internal/platform/anthropic"
	"bookbeat/internal/platform/openlibrary"

	"github.com/rs/zerolog"
)

const topCandidates = 5

// Enricher is the slice of the generative-text provider the engine drives.
type Enricher interface {
	catalog.Enricher
	RecommendBooks(ctx context.Context, history []anthropic.BookSignal, n int) ([]anthropic.Suggestion, error)
}

// BookAggregator resolves candidate queries against the book-search
// provider with per-query failure isolation.
type BookAggregator interface {
	SearchBooks(ctx context.Context, queries []string, known map[string]bool) []openlibrary.BookHit
}

// Engine turns a user's reading history into a cached, deduplicated,
// image-qualified recommendation list.
type Engine struct {
	resolver   *catalog.Resolver
	genres     *catalog.GenreService
	enrich     Enricher
	aggregator BookAggregator
	cache      *cache.Cache
	ttl        time.Duration
	pageSize   int
	log        zerolog.Logger

	now func() time.Time
}

func NewEngine(resolver *catalog.Resolver, genres *catalog.GenreService, enrich Enricher, aggregator BookAggregator, c *cache.Cache, ttl time.Duration, pageSize int, log zerolog.Logger) *Engine {
	if pageSize <= 0 {
		pageSize = 5
	}
	return &Engine{
		resolver:   resolver,
		genres:     genres,
		enrich:     enrich,
		aggregator: aggregator,
		cache:      c,
		ttl:        ttl,
		pageSize:   pageSize,
		log:        log,
		now:        time.Now,
	}
}

// Recommend runs the pipeline: score history, ask for suggestions, search
// the book provider, resolve new hits into the catalog, filter to entities
// with a cover image, cache the page. Any stage may come back empty and
// short-circuits to an empty list rather than an error; the cache key is
// scoped to (user, size of the client's current set) so "load more" pages
// differ.
func (e *Engine) Recommend(ctx context.Context, userID string, history []HistoryItem, have int) ([]catalog.Book, error) {
	key := fmt.Sprintf("recommend:%s:%d", userID, have)

	var cached []catalog.Book
	if e.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	candidates := ScoreHistory(history, e.now())
	if len(candidates) == 0 {
		return nil, nil
	}
	if len(candidates) > topCandidates {
		candidates = candidates[:topCandidates]
	}

	signals := make([]anthropic.BookSignal, len(candidates))
	known := make(map[string]bool, len(history))
	for i, c := range candidates {
		signals[i] = anthropic.BookSignal{Title: c.Title, Author: c.Author, Weight: c.Weight}
	}
	for _, item := range history {
		known[item.ISBN] = true
	}

	suggestions, err := e.enrich.RecommendBooks(ctx, signals, e.pageSize)
	if err != nil {
		// no suggestions means no page, not a failed request
		e.log.Warn().Err(err).Str("user_id", userID).Msg("recommendation suggestions unavailable")
		return nil, nil
	}
	if len(suggestions) == 0 {
		return nil, nil
	}

	queries := make([]string, len(suggestions))
	for i, s := range suggestions {
		queries[i] = s.Title + " " + s.Author
	}

	hits := e.aggregator.SearchBooks(ctx, queries, known)

	hitISBNs := make([]string, len(hits))
	for i, hit := range hits {
		hitISBNs[i] = hit.ISBN
	}
	catalogued, err := e.resolver.KnownBooks(ctx, hitISBNs)
	if err != nil {
		e.log.Warn().Err(err).Msg("batch catalog lookup failed, resolving per hit")
		catalogued = nil
	}

	books := make([]catalog.Book, 0, len(hits))
	for _, hit := range hits {
		if book, ok := catalogued[hit.ISBN]; ok {
			if book.ImageURL != "" {
				books = append(books, book)
			}
			continue
		}
		base := catalog.Book{
			ISBN:          hit.ISBN,
			Title:         hit.Title,
			Author:        hit.Author,
			Rating:        hit.Rating,
			PublishedYear: hit.PublishedYear,
			PageCount:     hit.PageCount,
			ImageURL:      hit.CoverURL,
		}
		build := catalog.NewEnrichedBookBuilder(e.enrich, e.genres, e.log, base)
		book, err := e.resolver.ResolveBook(ctx, hit.ISBN, build)
		if err != nil {
			// one failed resolution degrades that hit only
			e.log.Warn().Err(err).Str("isbn", hit.ISBN).Msg("could not resolve recommended book")
			continue
		}
		// only recommend books the UI can show
		if book.ImageURL == "" {
			continue
		}
		books = append(books, book)
	}

	e.cache.SetJSON(ctx, key, books, e.ttl)
	return books, nil
}
