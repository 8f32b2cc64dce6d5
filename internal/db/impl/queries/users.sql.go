package queries

import (
	"context"
	"database/sql"
)

const userColumns = `id, ap_id, localname, name, summary, inbox, shared_inbox, followers, following, public_key, local, created`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.ApID,
		&u.Localname,
		&u.Name,
		&u.Summary,
		&u.Inbox,
		&u.SharedInbox,
		&u.Followers,
		&u.Following,
		&u.PublicKey,
		&u.Local,
		&u.Created,
	)
	return u, err
}

const getUserByApID = `SELECT ` + userColumns + ` FROM users WHERE ap_id = ?`

func (q *Queries) GetUserByApID(ctx context.Context, apID string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByApID, apID))
}

const getLocalUser = `SELECT ` + userColumns + ` FROM users WHERE localname = ? AND local = TRUE`

func (q *Queries) GetLocalUser(ctx context.Context, localname string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getLocalUser, localname))
}

const insertUserIfAbsent = `INSERT INTO users (
    ap_id, localname, name, summary, inbox, shared_inbox, followers, following, public_key, private_key, local, created
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (ap_id) DO NOTHING`

type InsertUserParams struct {
	ApID        string
	Localname   sql.NullString
	Name        string
	Summary     string
	Inbox       string
	SharedInbox sql.NullString
	Followers   sql.NullString
	Following   sql.NullString
	PublicKey   string
	PrivateKey  sql.NullString
	Local       bool
	Created     int64
}

// InsertUserIfAbsent returns the number of inserted rows, which is zero if a user with the same ap_id exists.
func (q *Queries) InsertUserIfAbsent(ctx context.Context, arg InsertUserParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertUserIfAbsent,
		arg.ApID,
		arg.Localname,
		arg.Name,
		arg.Summary,
		arg.Inbox,
		arg.SharedInbox,
		arg.Followers,
		arg.Following,
		arg.PublicKey,
		arg.PrivateKey,
		arg.Local,
		arg.Created,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getPrivateKeyByApID = `SELECT private_key FROM users WHERE ap_id = ? AND local = TRUE AND private_key IS NOT NULL`

func (q *Queries) GetPrivateKeyByApID(ctx context.Context, apID string) (string, error) {
	row := q.db.QueryRowContext(ctx, getPrivateKeyByApID, apID)
	var key string
	err := row.Scan(&key)
	return key, err
}
