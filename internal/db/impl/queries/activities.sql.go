package queries

import (
	"context"
	"database/sql"
)

const insertActivityIfAbsent = `INSERT INTO activities (ap_id, kind, sub_type, user_id, raw_json, book_id, review_id, created)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (kind, ap_id) DO NOTHING`

type InsertActivityParams struct {
	ApID     string
	Kind     string
	SubType  string
	UserID   int64
	RawJson  []byte
	BookID   sql.NullInt64
	ReviewID sql.NullInt64
	Created  int64
}

// InsertActivityIfAbsent returns the id of the new row, or zero if an activity of the same kind and ap_id
// already exists.
func (q *Queries) InsertActivityIfAbsent(ctx context.Context, arg InsertActivityParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertActivityIfAbsent,
		arg.ApID,
		arg.Kind,
		arg.SubType,
		arg.UserID,
		arg.RawJson,
		arg.BookID,
		arg.ReviewID,
		arg.Created,
	)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil || n == 0 {
		return 0, err
	}
	return result.LastInsertId()
}

const getActivityID = `SELECT id FROM activities WHERE kind = ? AND ap_id = ?`

func (q *Queries) GetActivityID(ctx context.Context, kind, apID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, getActivityID, kind, apID)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const activityExists = `SELECT EXISTS(SELECT TRUE FROM activities WHERE kind = ? AND ap_id = ?)`

func (q *Queries) ActivityExists(ctx context.Context, kind, apID string) (bool, error) {
	row := q.db.QueryRowContext(ctx, activityExists, kind, apID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getActivity = `SELECT id, ap_id, kind, sub_type, user_id, raw_json, book_id, review_id, created FROM activities WHERE id = ?`

func (q *Queries) GetActivity(ctx context.Context, id int64) (Activity, error) {
	row := q.db.QueryRowContext(ctx, getActivity, id)
	var a Activity
	err := row.Scan(
		&a.ID,
		&a.ApID,
		&a.Kind,
		&a.SubType,
		&a.UserID,
		&a.RawJson,
		&a.BookID,
		&a.ReviewID,
		&a.Created,
	)
	return a, err
}

const linkActivityReview = `UPDATE activities SET book_id = ?, review_id = ? WHERE id = ?`

func (q *Queries) LinkActivityReview(ctx context.Context, bookID, reviewID, id int64) error {
	_, err := q.db.ExecContext(ctx, linkActivityReview, bookID, reviewID, id)
	return err
}
