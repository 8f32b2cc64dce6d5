package domain

import (
	"net/url"
	"time"
)

// Actor is a federated identity known to this instance: either one of its own users or a remote actor that
// was materialized on first contact.
type Actor struct {
	ID int64
	// ApId is the actor's canonical IRI.
	ApId *url.URL
	// Localname is only set for local users.
	Localname   string
	Name        string
	Summary     string
	Inbox       *url.URL
	SharedInbox *url.URL
	Followers   *url.URL
	Following   *url.URL
	PublicKey   string
	Local       bool
	Created     time.Time
}

// DeliveryInbox returns the inbox activities addressed to the actor should be posted to, preferring the
// shared inbox.
func (a Actor) DeliveryInbox() *url.URL {
	if a.SharedInbox != nil {
		return a.SharedInbox
	}
	return a.Inbox
}

// Follow is a follow relationship between two actors, created by the Follow activity with IRI.
type Follow struct {
	IRI      *url.URL
	Follower int64
	Followee int64
	Raw      []byte
	Accepted bool
}

type Book struct {
	ID  int64
	Key string
}

type Review struct {
	ID      int64
	UserID  int64
	Book    Book
	Name    string
	Content string
	// Rating is nil for reviews without a rating.
	Rating  *int
	Created time.Time
}
