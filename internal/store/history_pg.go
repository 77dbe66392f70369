package store

import (
	"context"

	"bookbeat/internal/entity"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserBookPG reads a user's shelf joined with the catalog rows it points at.
type UserBookPG struct {
	db *pgxpool.Pool
}

func NewUserBookPG(db *pgxpool.Pool) *UserBookPG {
	return &UserBookPG{db: db}
}

// ListByUserID returns the user's shelf newest first.
func (r *UserBookPG) ListByUserID(ctx context.Context, userID string) ([]entity.UserBook, error) {
	query := `
	SELECT ub.id, ub.user_id, ub.isbn, b.title, b.author, b.rating,
	       ub.my_rating, ub.is_favorite, ub.reading_status, ub.created_at
	FROM user_books ub
	JOIN catalog_books b ON b.isbn = ub.isbn
	WHERE ub.user_id = $1
	ORDER BY ub.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []entity.UserBook
	for rows.Next() {
		var ub entity.UserBook
		if err := rows.Scan(&ub.ID, &ub.UserID, &ub.ISBN, &ub.Title, &ub.Author, &ub.Rating,
			&ub.MyRating, &ub.IsFavorite, &ub.ReadingStatus, &ub.CreatedAt); err != nil {
			return nil, err
		}
		books = append(books, ub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}
