package inbox

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/sidereusnuntius/readfed/internal/activity"
	"github.com/sidereusnuntius/readfed/internal/db"
	"github.com/sidereusnuntius/readfed/internal/domain"
	"github.com/sidereusnuntius/readfed/internal/federation"
)

type Resolver interface {
	Resolve(ctx context.Context, iri *url.URL) (domain.Actor, error)
}

// Accepter decides on, and answers, the follow requests received by local users. The follow has already been
// recorded when Accept is called. Accept is called again for every redelivery of the Follow, and must send a
// single answer per Follow id.
type Accepter interface {
	Accept(ctx context.Context, follower, followed domain.Actor, follow domain.Follow) error
}

// Inbox holds the handlers of every supported activity type.
type Inbox struct {
	DB       db.DB
	resolver Resolver
	accepter Accepter
}

func New(DB db.DB, resolver Resolver, accepter Accepter) *Inbox {
	return &Inbox{
		DB:       DB,
		resolver: resolver,
		accepter: accepter,
	}
}

// Register adds the handlers to the dispatcher.
func (i *Inbox) Register(d *Dispatcher) {
	d.Register(activity.KindFollow, Handle(i.Follow))
	d.Register(activity.KindAccept, Handle(i.Accept))
	d.Register(activity.KindCreate, Handle(i.Create))
	d.Register(activity.KindAdd, Handle(i.Shelve))
}

// localUser returns the local user identified by iri. Remote actors are not valid referents.
func (i *Inbox) localUser(ctx context.Context, iri *url.URL) (domain.Actor, error) {
	u, err := i.DB.GetActorByIRI(ctx, iri)
	if errors.Is(err, db.ErrNotFound) {
		return domain.Actor{}, fmt.Errorf("%w: local user %s", federation.ErrReferentNotFound, iri)
	}
	if err != nil {
		return domain.Actor{}, err
	}
	if !u.Local {
		return domain.Actor{}, fmt.Errorf("%w: %s is not a local user", federation.ErrReferentNotFound, iri)
	}
	return u, nil
}

func activityIRI(e *activity.Envelope) (*url.URL, error) {
	iri, err := activity.Ref{IRI: e.ID}.URL()
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	return iri, nil
}

func property(name string, r activity.Ref) (*url.URL, error) {
	iri, err := r.URL()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return iri, nil
}
