package gateway

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/conversions"
	"github.com/sidereusnuntius/readfed/internal/domain"
)

const acceptKind = "Accept"

// AcceptIRI returns the id of the Accept answering the Follow with IRI follow. It only depends on the two
// IRIs, so a Follow is never answered by two different Accepts.
func AcceptIRI(followed domain.Actor, follow domain.Follow) *url.URL {
	return followed.ApId.JoinPath("accept", uuid.NewSHA1(uuid.NameSpaceURL, []byte(follow.IRI.String())).String())
}

// Accept sends an Accept of follow, unless it was already sent. The delivery is enqueued before the Accept is
// recorded: a failure at either step returns an error, and calling Accept again once the Follow is redelivered
// completes it.
func (g *FedGatewayImpl) Accept(ctx context.Context, follower, followed domain.Actor, follow domain.Follow) error {
	if follow.IRI == nil {
		return fmt.Errorf("follow of %s by %s has no IRI", followed.ApId, follower.ApId)
	}

	id := AcceptIRI(followed, follow)
	sent, err := g.db.ActivityExists(ctx, acceptKind, id)
	if err != nil {
		return err
	}
	if sent {
		log.Debug().Str("follow", follow.IRI.String()).Msg("follow already accepted")
		return nil
	}

	accept := conversions.NewAccept(id, followed.ApId, follow.IRI, follower.ApId)
	data, raw, err := serialize(accept)
	if err != nil {
		return err
	}

	inbox := follower.DeliveryInbox()
	log.Info().Str("follow", follow.IRI.String()).
		Str("inbox", inbox.String()).
		Msg("accepting follow")
	if err = g.queue.Deliver(ctx, data, inbox, followed.ApId); err != nil {
		return err
	}

	_, _, err = g.db.InsertActivityIfAbsent(ctx, domain.ActivityRecord{
		Iri:     id,
		Kind:    acceptKind,
		ActorID: followed.ID,
		RawJSON: raw,
	})
	return err
}
