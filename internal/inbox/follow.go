package inbox

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/activity"
	"github.com/sidereusnuntius/readfed/internal/domain"
)

// Follow records a remote actor's request to follow a local user and passes it on to the accepter. A Follow
// whose id was already recorded is passed on again, so that an Accept that failed to go out is retried.
func (i *Inbox) Follow(ctx context.Context, f *activity.Follow) error {
	iri, err := activityIRI(&f.Envelope)
	if err != nil {
		return err
	}

	actorIRI, err := property("actor", f.Actor)
	if err != nil {
		return err
	}

	objectIRI, err := property("object", f.Object)
	if err != nil {
		return err
	}

	followed, err := i.localUser(ctx, objectIRI)
	if err != nil {
		return err
	}

	follower, err := i.resolver.Resolve(ctx, actorIRI)
	if err != nil {
		return err
	}

	follow := domain.Follow{
		IRI:      iri,
		Follower: follower.ID,
		Followee: followed.ID,
		Raw:      f.Raw,
		Accepted: true,
	}
	inserted, err := i.DB.Follow(ctx, follow)
	if err != nil {
		return err
	}
	if inserted {
		log.Info().Str("follower", actorIRI.String()).
			Str("followed", objectIRI.String()).
			Msg("new follower")
	} else {
		log.Debug().Str("id", iri.String()).Msg("follow already recorded")
	}
	return i.accepter.Accept(ctx, follower, followed, follow)
}
