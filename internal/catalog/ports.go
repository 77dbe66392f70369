package catalog

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports a lookup by external id that matched no row.
	ErrNotFound = errors.New("catalog: not found")
	// ErrConflict reports a create that lost a uniqueness race; the row
	// already exists and a fresh lookup will return it.
	ErrConflict = errors.New("catalog: already exists")
	// ErrUnknownGenre reports a genre id outside the active set.
	ErrUnknownGenre = errors.New("catalog: unknown genre id")
)

// Store defines the contract for the persistent catalog. Create methods
// must return ErrConflict when the external id already exists; the store's
// uniqueness constraint is the only serialization point.
type Store interface {
	FindBookByISBN(ctx context.Context, isbn string) (Book, error)
	FindBooksByISBNs(ctx context.Context, isbns []string) ([]Book, error)
	CreateBook(ctx context.Context, b *Book) (Book, error)
	FindPlaylistByID(ctx context.Context, spotifyID string) (Playlist, error)
	CreatePlaylist(ctx context.Context, p *Playlist) (Playlist, error)
	ListGenres(ctx context.Context) ([]Genre, error)
}

// Enricher is the slice of the generative-text provider the catalog needs
// when building a new entity.
type Enricher interface {
	Describe(ctx context.Context, title, author string) (string, error)
	ClassifyGenres(ctx context.Context, active []Genre, title, author string) ([]int, error)
}
