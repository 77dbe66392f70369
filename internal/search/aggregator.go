package search

import (
	"context"
	"time"

	"bookbeat/internal/platform/openlibrary"

	"github.com/rs/zerolog"
)

const (
	defaultMaxWorkers     = 8
	defaultPerCallTimeout = 10 * time.Second
)

// BookSearcher is the slice of the book-search provider the aggregator uses.
type BookSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]openlibrary.BookHit, error)
}

// Aggregator fans a batch of queries out to the book-search provider and
// merges the results with per-query failure isolation.
type Aggregator struct {
	books         BookSearcher
	perQueryLimit int
	maxWorkers    int
	callTimeout   time.Duration
	log           zerolog.Logger
}

func NewAggregator(books BookSearcher, perQueryLimit int, log zerolog.Logger) *Aggregator {
	if perQueryLimit <= 0 {
		perQueryLimit = 1
	}
	return &Aggregator{
		books:         books,
		perQueryLimit: perQueryLimit,
		maxWorkers:    defaultMaxWorkers,
		callTimeout:   defaultPerCallTimeout,
		log:           log,
	}
}

// SearchBooks runs all queries concurrently and returns the surviving hits
// flattened in query-submission order. A failed query contributes an empty
// hit list. Hits whose ISBN appears in known, or earlier in the same batch,
// are dropped before any persistence work happens; hits without a cover
// image are dropped as well since they are never shown to the user.
func (a *Aggregator) SearchBooks(ctx context.Context, queries []string, known map[string]bool) []openlibrary.BookHit {
	results := FanOut(ctx, queries, a.maxWorkers, a.callTimeout,
		func(callCtx context.Context, query string) ([]openlibrary.BookHit, error) {
			return a.books.Search(callCtx, query, a.perQueryLimit)
		})

	seen := make(map[string]bool, len(known))
	for isbn := range known {
		seen[isbn] = true
	}

	var out []openlibrary.BookHit
	for _, res := range results {
		if res.Err != nil {
			a.log.Warn().Err(res.Err).Str("query", res.Query).Msg("book search query failed")
			continue
		}
		for _, hit := range res.Hits {
			if hit.ISBN == "" || seen[hit.ISBN] {
				continue
			}
			// a coverless hit is dropped without claiming the ISBN, so a
			// covered hit for the same book later in the batch still lands
			if !hit.HasCover() {
				continue
			}
			seen[hit.ISBN] = true
			out = append(out, hit)
		}
	}
	return out
}
