package catalog

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// NewEnrichedBookBuilder returns a BookBuilder that fills in the description
// and genre set for base concurrently from the generative-text provider.
// Provider failures degrade rather than abort: a failed describe leaves the
// description empty, a failed classification leaves the genre set empty.
func NewEnrichedBookBuilder(enrich Enricher, genres *GenreService, log zerolog.Logger, base Book) BookBuilder {
	return func(ctx context.Context) (Book, error) {
		book := base

		active, err := genres.Active(ctx)
		if err != nil {
			log.Warn().Err(err).Str("isbn", base.ISBN).Msg("active genres unavailable, skipping classification")
			active = nil
		}

		var (
			wg          sync.WaitGroup
			description string
			genreIDs    []int
		)

		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := enrich.Describe(ctx, base.Title, base.Author)
			if err != nil {
				log.Warn().Err(err).Str("title", base.Title).Msg("describe failed")
				return
			}
			description = d
		}()

		if len(active) > 0 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ids, err := enrich.ClassifyGenres(ctx, active, base.Title, base.Author)
				if err != nil {
					log.Warn().Err(err).Str("title", base.Title).Msg("genre classification failed")
					return
				}
				genreIDs = ids
			}()
		}

		wg.Wait()

		book.Description = description
		book.GenreIDs = genreIDs
		return book, nil
	}
}
