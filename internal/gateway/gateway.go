// Package gateway produces the activities this instance sends in response to inbound ones.
package gateway

import (
	"context"
	"encoding/json"

	"code.superseriousbusiness.org/activity/streams"
	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/config"
	"github.com/sidereusnuntius/readfed/internal/db"
	"github.com/sidereusnuntius/readfed/internal/domain"
	"github.com/sidereusnuntius/readfed/internal/queue"
)

type FedGateway interface {
	// Accept answers a Follow of the local user followed. The Accept is recorded and its delivery to the
	// follower enqueued. It is idempotent per Follow: once the Accept is recorded, later calls send nothing.
	Accept(ctx context.Context, follower, followed domain.Actor, follow domain.Follow) error
}

type FedGatewayImpl struct {
	db    db.Activities
	queue queue.ApQueue
	cfg   *config.Configuration
}

func New(db db.Activities, queue queue.ApQueue, cfg *config.Configuration) FedGateway {
	return &FedGatewayImpl{
		db:    db,
		queue: queue,
		cfg:   cfg,
	}
}

// serialize returns the activity's JSON document, both as a map for delivery and encoded for the record.
func serialize(activity vocab.Type) (map[string]any, []byte, error) {
	data, err := streams.Serialize(activity)
	if err != nil {
		log.Error().Err(err).Msg("activity serialization error")
		return nil, nil, err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, nil, err
	}
	return data, raw, nil
}
