package queries

import (
	"context"
	"database/sql"
)

const insertBookIfAbsent = `INSERT INTO books (key) VALUES (?) ON CONFLICT (key) DO NOTHING`

const getBookID = `SELECT id FROM books WHERE key = ?`

// GetOrCreateBook returns the id of the book with the given key, creating it if needed.
func (q *Queries) GetOrCreateBook(ctx context.Context, key string) (int64, error) {
	if _, err := q.db.ExecContext(ctx, insertBookIfAbsent, key); err != nil {
		return 0, err
	}
	row := q.db.QueryRowContext(ctx, getBookID, key)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const insertReview = `INSERT INTO reviews (user_id, book_id, name, content, rating, created) VALUES (?, ?, ?, ?, ?, ?)`

type InsertReviewParams struct {
	UserID  int64
	BookID  int64
	Name    string
	Content string
	Rating  sql.NullInt64
	Created int64
}

func (q *Queries) InsertReview(ctx context.Context, arg InsertReviewParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertReview,
		arg.UserID,
		arg.BookID,
		arg.Name,
		arg.Content,
		arg.Rating,
		arg.Created,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getReview = `SELECT r.id, r.user_id, r.book_id, b.key, r.name, r.content, r.rating, r.created
FROM reviews r
JOIN books b ON b.id = r.book_id
WHERE r.id = ?`

func (q *Queries) GetReview(ctx context.Context, id int64) (Review, error) {
	row := q.db.QueryRowContext(ctx, getReview, id)
	var r Review
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.BookID,
		&r.BookKey,
		&r.Name,
		&r.Content,
		&r.Rating,
		&r.Created,
	)
	return r, err
}
