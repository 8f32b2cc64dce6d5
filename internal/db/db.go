package db

import (
	"context"
	"crypto"
	"errors"
	"net/url"

	"github.com/sidereusnuntius/readfed/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal database error")
)

//go:generate mockgen -destination=../mocks/mock_db.go -package=mock_db github.com/sidereusnuntius/readfed/internal/db DB

// DB is the persistence layer used by the federation core. Every lookup that finds nothing returns an error
// wrapping ErrNotFound.
type DB interface {
	Actors
	Activities
	Follows
	Reviews
}

type Actors interface {
	GetActorByIRI(ctx context.Context, iri *url.URL) (domain.Actor, error)
	GetLocalUser(ctx context.Context, localname string) (domain.Actor, error)
	// FindOrCreateActor inserts the actor unless another one with the same IRI exists, and returns the stored
	// actor in both cases. Concurrent calls for the same IRI store a single actor.
	FindOrCreateActor(ctx context.Context, actor domain.Actor) (domain.Actor, error)
	// CreateLocalUser stores a local user together with its private key.
	CreateLocalUser(ctx context.Context, user domain.Actor, privateKeyPem string) (domain.Actor, error)
	GetUserPrivateKeyByURI(ctx context.Context, iri *url.URL) (crypto.PrivateKey, error)
}

type Activities interface {
	// InsertActivityIfAbsent stores the activity unless one of the same kind and IRI was already stored.
	// inserted reports whether a new record was created.
	InsertActivityIfAbsent(ctx context.Context, activity domain.ActivityRecord) (id int64, inserted bool, err error)
	ActivityExists(ctx context.Context, kind string, iri *url.URL) (bool, error)
	// GetStatus returns a stored activity by its internal id.
	GetStatus(ctx context.Context, id int64) (domain.ActivityRecord, error)
	GetActivityByIRI(ctx context.Context, kind string, iri *url.URL) (domain.ActivityRecord, error)
	// CreateRemoteReview creates the review, along with its book if needed, and the activity that produced it
	// in a single transaction. If the activity was already recorded nothing is written and inserted is false.
	CreateRemoteReview(ctx context.Context, review domain.Review, activity domain.ActivityRecord) (r domain.Review, inserted bool, err error)
}

type Follows interface {
	// Follow records the relationship. If a follow with the same IRI exists it is a no-op and inserted is
	// false; a new IRI for an existing pair of actors replaces the old one.
	Follow(ctx context.Context, follow domain.Follow) (inserted bool, err error)
	GetFollowByIRI(ctx context.Context, iri *url.URL) (domain.Follow, error)
	// GetFollowers returns the IRIs of the actors following the given actor, oldest first.
	GetFollowers(ctx context.Context, actorID int64) ([]*url.URL, error)
	// GetFollowing returns the IRIs of the actors the given actor follows, oldest first.
	GetFollowing(ctx context.Context, actorID int64) ([]*url.URL, error)
}

type Reviews interface {
	GetReviewByID(ctx context.Context, id int64) (domain.Review, error)
}
