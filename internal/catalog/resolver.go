package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// BookBuilder produces the fields for a book that is not in the catalog yet.
// It may call out to external providers and is only invoked on a miss.
type BookBuilder func(ctx context.Context) (Book, error)

// PlaylistBuilder produces the fields for a playlist that is not in the
// catalog yet.
type PlaylistBuilder func(ctx context.Context) (Playlist, error)

// Resolver implements create-if-absent resolution against the catalog.
// There is no application-level lock: concurrent resolutions of the same
// unseen id may both build and both attempt a create, and the loser of the
// store's uniqueness race falls back to a fresh lookup. Duplicate builder
// work is accepted; a duplicate row is not.
type Resolver struct {
	store  Store
	genres *GenreService
	log    zerolog.Logger
}

func NewResolver(store Store, genres *GenreService, log zerolog.Logger) *Resolver {
	return &Resolver{store: store, genres: genres, log: log}
}

// ResolveBook returns the catalog book for isbn, creating it from build if
// absent. Genre ids produced by the builder must belong to the active set.
func (r *Resolver) ResolveBook(ctx context.Context, isbn string, build BookBuilder) (Book, error) {
	existing, err := r.store.FindBookByISBN(ctx, isbn)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Book{}, fmt.Errorf("lookup book %s: %w", isbn, err)
	}

	built, err := build(ctx)
	if err != nil {
		return Book{}, fmt.Errorf("build book %s: %w", isbn, err)
	}
	built.ISBN = isbn

	if err := r.genres.ValidateIDs(ctx, built.GenreIDs); err != nil {
		return Book{}, err
	}

	created, err := r.store.CreateBook(ctx, &built)
	if err == nil {
		return created, nil
	}
	if errors.Is(err, ErrConflict) {
		// Another caller created the row between our lookup and create.
		// The enrichment work is wasted; the row is theirs.
		r.log.Debug().Str("isbn", isbn).Msg("lost create race, re-reading")
		return r.store.FindBookByISBN(ctx, isbn)
	}
	return Book{}, fmt.Errorf("create book %s: %w", isbn, err)
}

// KnownBooks returns the already-catalogued subset of isbns, keyed by ISBN.
// Batch callers use it to skip the build path for rows that exist.
func (r *Resolver) KnownBooks(ctx context.Context, isbns []string) (map[string]Book, error) {
	if len(isbns) == 0 {
		return nil, nil
	}
	books, err := r.store.FindBooksByISBNs(ctx, isbns)
	if err != nil {
		return nil, fmt.Errorf("lookup books: %w", err)
	}
	known := make(map[string]Book, len(books))
	for _, b := range books {
		known[b.ISBN] = b
	}
	return known, nil
}

// ResolvePlaylist is ResolveBook for playlist entities.
func (r *Resolver) ResolvePlaylist(ctx context.Context, spotifyID string, build PlaylistBuilder) (Playlist, error) {
	existing, err := r.store.FindPlaylistByID(ctx, spotifyID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Playlist{}, fmt.Errorf("lookup playlist %s: %w", spotifyID, err)
	}

	built, err := build(ctx)
	if err != nil {
		return Playlist{}, fmt.Errorf("build playlist %s: %w", spotifyID, err)
	}
	built.SpotifyID = spotifyID

	created, err := r.store.CreatePlaylist(ctx, &built)
	if err == nil {
		return created, nil
	}
	if errors.Is(err, ErrConflict) {
		r.log.Debug().Str("spotify_id", spotifyID).Msg("lost create race, re-reading")
		return r.store.FindPlaylistByID(ctx, spotifyID)
	}
	return Playlist{}, fmt.Errorf("create playlist %s: %w", spotifyID, err)
}
