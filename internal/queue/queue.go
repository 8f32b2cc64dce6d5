package queue

import (
	"context"
	"net/url"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

// ApQueue delivers activities in the background, retrying failed deliveries.
type ApQueue interface {
	Deliver(ctx context.Context, activity map[string]any, inbox *url.URL, from *url.URL) error
}

// Deliverer posts an activity to an inbox, signed with the key of the local actor from.
type Deliverer interface {
	DeliverAs(ctx context.Context, obj map[string]any, to *url.URL, from *url.URL) error
}

type apQueueImpl struct {
	queues *backlite.Client
	client Deliverer
}

func New(ctx context.Context, client Deliverer, blClient *backlite.Client) ApQueue {
	q := &apQueueImpl{
		queues: blClient,
		client: client,
	}
	q.register()
	q.queues.Start(ctx)
	log.Info().Msg("started task queue")
	return q
}

func (q *apQueueImpl) Deliver(ctx context.Context, activity map[string]any, inbox *url.URL, from *url.URL) error {
	log.Debug().Str("inbox", inbox.String()).Str("from", from.String()).Msg("enqueuing delivery")
	task := PostJob{
		To:   inbox.String(),
		From: from.String(),
		Body: activity,
	}

	_, err := q.queues.Add(task).Save()
	if err != nil {
		log.Error().Err(err).Msg("adding delivery task to queue")
	}
	return err
}
