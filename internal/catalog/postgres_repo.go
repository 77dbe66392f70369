package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) FindBookByISBN(ctx context.Context, isbn string) (Book, error) {
	const query = `
		SELECT isbn, title, author, rating, published_year, page_count, description, image_url, created_at, updated_at
		FROM catalog_books
		WHERE isbn = $1`

	var b Book
	err := r.db.QueryRow(ctx, query, isbn).Scan(
		&b.ISBN, &b.Title, &b.Author, &b.Rating, &b.PublishedYear,
		&b.PageCount, &b.Description, &b.ImageURL, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}

	b.GenreIDs, err = r.genreIDsFor(ctx, isbn)
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) FindBooksByISBNs(ctx context.Context, isbns []string) ([]Book, error) {
	if len(isbns) == 0 {
		return nil, nil
	}

	const query = `
		SELECT isbn, title, author, rating, published_year, page_count, description, image_url, created_at, updated_at
		FROM catalog_books
		WHERE isbn = ANY($1)`

	rows, err := r.db.Query(ctx, query, isbns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ISBN, &b.Title, &b.Author, &b.Rating, &b.PublishedYear,
			&b.PageCount, &b.Description, &b.ImageURL, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreateBook inserts a new catalog row. The primary key on isbn serializes
// conflicting creates: a duplicate insert surfaces as ErrConflict and the
// caller re-reads the winner's row.
func (r *PostgresRepo) CreateBook(ctx context.Context, b *Book) (Book, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Book{}, err
	}
	defer tx.Rollback(ctx)

	const bookSQL = `
		INSERT INTO catalog_books (isbn, title, author, rating, published_year, page_count, description, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING created_at, updated_at`

	err = tx.QueryRow(ctx, bookSQL,
		b.ISBN, b.Title, b.Author, b.Rating, b.PublishedYear,
		b.PageCount, b.Description, b.ImageURL,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Book{}, ErrConflict
		}
		return Book{}, fmt.Errorf("insert book: %w", err)
	}

	for _, genreID := range b.GenreIDs {
		const genreSQL = `INSERT INTO book_genres (isbn, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := tx.Exec(ctx, genreSQL, b.ISBN, genreID); err != nil {
			return Book{}, fmt.Errorf("attach genre %d: %w", genreID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return Book{}, ErrConflict
		}
		return Book{}, err
	}
	return *b, nil
}

func (r *PostgresRepo) FindPlaylistByID(ctx context.Context, spotifyID string) (Playlist, error) {
	const query = `
		SELECT spotify_id, name, description, image_url, uri, created_at
		FROM playlists
		WHERE spotify_id = $1`

	var p Playlist
	err := r.db.QueryRow(ctx, query, spotifyID).Scan(
		&p.SpotifyID, &p.Name, &p.Description, &p.ImageURL, &p.URI, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Playlist{}, ErrNotFound
		}
		return Playlist{}, err
	}
	return p, nil
}

func (r *PostgresRepo) CreatePlaylist(ctx context.Context, p *Playlist) (Playlist, error) {
	const query = `
		INSERT INTO playlists (spotify_id, name, description, image_url, uri, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		p.SpotifyID, p.Name, p.Description, p.ImageURL, p.URI,
	).Scan(&p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Playlist{}, ErrConflict
		}
		return Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}
	return *p, nil
}

func (r *PostgresRepo) ListGenres(ctx context.Context) ([]Genre, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM genres ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Genre
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) genreIDsFor(ctx context.Context, isbn string) ([]int, error) {
	rows, err := r.db.Query(ctx, `SELECT genre_id FROM book_genres WHERE isbn = $1 ORDER BY genre_id`, isbn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
