package queries

import "database/sql"

type User struct {
	ID          int64
	ApID        string
	Localname   sql.NullString
	Name        string
	Summary     string
	Inbox       string
	SharedInbox sql.NullString
	Followers   sql.NullString
	Following   sql.NullString
	PublicKey   string
	Local       bool
	Created     int64
}

type Follow struct {
	ID         int64
	ApID       sql.NullString
	FollowerID int64
	FolloweeID int64
	RawJson    []byte
	Accepted   bool
	Created    int64
}

type Activity struct {
	ID       int64
	ApID     string
	Kind     string
	SubType  string
	UserID   int64
	RawJson  []byte
	BookID   sql.NullInt64
	ReviewID sql.NullInt64
	Created  int64
}

type Review struct {
	ID      int64
	UserID  int64
	BookID  int64
	BookKey string
	Name    string
	Content string
	Rating  sql.NullInt64
	Created int64
}
