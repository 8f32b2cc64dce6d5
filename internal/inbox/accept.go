package inbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/activity"
	"github.com/sidereusnuntius/readfed/internal/db"
	"github.com/sidereusnuntius/readfed/internal/domain"
	"github.com/sidereusnuntius/readfed/internal/federation"
)

// Accept adds the local user who sent a Follow to the followers of the remote actor that accepted it. The
// accepted Follow is either embedded in the activity or referenced by its id.
func (i *Inbox) Accept(ctx context.Context, a *activity.Accept) error {
	accepterIRI, err := property("actor", a.Actor)
	if err != nil {
		return err
	}

	var requester int64
	var expectedAccepter = func(domain.Actor) error { return nil }

	if a.Follow != nil {
		requesterIRI, err := property("object.actor", a.Follow.Actor)
		if err != nil {
			return err
		}

		u, err := i.localUser(ctx, requesterIRI)
		if err != nil {
			return err
		}
		requester = u.ID

		if !a.Follow.Object.Empty() {
			expectedAccepter = func(accepter domain.Actor) error {
				if a.Follow.Object.IRI != accepter.ApId.String() {
					return fmt.Errorf("%w: %s accepted a follow of %s", federation.ErrValidation, accepter.ApId, a.Follow.Object.IRI)
				}
				return nil
			}
		}
	} else {
		followIRI, err := property("object", a.Object)
		if err != nil {
			return err
		}

		follow, err := i.DB.GetFollowByIRI(ctx, followIRI)
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: follow %s", federation.ErrReferentNotFound, followIRI)
		}
		if err != nil {
			return err
		}
		requester = follow.Follower

		expectedAccepter = func(accepter domain.Actor) error {
			if follow.Followee != accepter.ID {
				return fmt.Errorf("%w: follow %s is not addressed to %s", federation.ErrReferentNotFound, followIRI, accepter.ApId)
			}
			return nil
		}
	}

	accepter, err := i.resolver.Resolve(ctx, accepterIRI)
	if err != nil {
		return err
	}
	if err = expectedAccepter(accepter); err != nil {
		return err
	}

	// The pair is the key: repeated Accepts only confirm the relationship.
	_, err = i.DB.Follow(ctx, domain.Follow{
		Follower: requester,
		Followee: accepter.ID,
		Accepted: true,
	})
	if err != nil {
		return err
	}

	log.Info().Str("accepter", accepterIRI.String()).Int64("requester", requester).Msg("follow accepted")
	return nil
}
