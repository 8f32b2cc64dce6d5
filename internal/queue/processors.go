package queue

import (
	"context"
	"net/url"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

func (q *apQueueImpl) register() {
	deliveryQueue := backlite.NewQueue[PostJob](q.deliver())
	q.queues.Register(deliveryQueue)
}

func (q *apQueueImpl) deliver() func(context.Context, PostJob) error {
	return func(ctx context.Context, pj PostJob) error {
		to, err := url.Parse(pj.To)
		if err != nil {
			return err
		}

		from, err := url.Parse(pj.From)
		if err != nil {
			return err
		}

		log.Debug().Str("inbox", pj.To).
			Str("from", pj.From).
			Msg("delivering activity")

		if err = q.client.DeliverAs(ctx, pj.Body, to, from); err != nil {
			log.Error().Err(err).Str("inbox", pj.To).Msg("delivery failed")
		}
		return err
	}
}
