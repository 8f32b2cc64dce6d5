package queries

import (
	"context"
	"database/sql"
)

const followExists = `SELECT EXISTS(SELECT TRUE FROM follows WHERE ap_id = ?)`

func (q *Queries) FollowExists(ctx context.Context, apID string) (bool, error) {
	row := q.db.QueryRowContext(ctx, followExists, apID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const upsertFollow = `INSERT INTO follows (ap_id, follower_id, followee_id, raw_json, accepted, created)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (follower_id, followee_id) DO UPDATE SET
    ap_id = COALESCE(excluded.ap_id, follows.ap_id),
    raw_json = COALESCE(excluded.raw_json, follows.raw_json),
    accepted = excluded.accepted OR follows.accepted`

type UpsertFollowParams struct {
	ApID       sql.NullString
	FollowerID int64
	FolloweeID int64
	RawJson    []byte
	Accepted   bool
	Created    int64
}

func (q *Queries) UpsertFollow(ctx context.Context, arg UpsertFollowParams) error {
	_, err := q.db.ExecContext(ctx, upsertFollow,
		arg.ApID,
		arg.FollowerID,
		arg.FolloweeID,
		arg.RawJson,
		arg.Accepted,
		arg.Created,
	)
	return err
}

const getFollowByApID = `SELECT id, ap_id, follower_id, followee_id, raw_json, accepted, created FROM follows WHERE ap_id = ?`

func (q *Queries) GetFollowByApID(ctx context.Context, apID string) (Follow, error) {
	row := q.db.QueryRowContext(ctx, getFollowByApID, apID)
	var f Follow
	err := row.Scan(
		&f.ID,
		&f.ApID,
		&f.FollowerID,
		&f.FolloweeID,
		&f.RawJson,
		&f.Accepted,
		&f.Created,
	)
	return f, err
}

const getFollowers = `SELECT u.ap_id FROM follows f
JOIN users u ON u.id = f.follower_id
WHERE f.followee_id = ?
ORDER BY f.created, f.id`

func (q *Queries) GetFollowers(ctx context.Context, followeeID int64) ([]string, error) {
	return q.strings(ctx, getFollowers, followeeID)
}

const getFollowing = `SELECT u.ap_id FROM follows f
JOIN users u ON u.id = f.followee_id
WHERE f.follower_id = ?
ORDER BY f.created, f.id`

func (q *Queries) GetFollowing(ctx context.Context, followerID int64) ([]string, error) {
	return q.strings(ctx, getFollowing, followerID)
}

func (q *Queries) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
