package inbox

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/activity"
)

// Shelve acknowledges an Add activity. Shelving books through federation is not supported yet, so the
// activity is only checked against the ones already recorded and no state is created.
func (i *Inbox) Shelve(ctx context.Context, a *activity.Add) error {
	iri, err := activityIRI(&a.Envelope)
	if err != nil {
		log.Debug().Err(err).Msg("ignoring Add without a valid id")
		return nil
	}

	exists, err := i.DB.ActivityExists(ctx, string(activity.KindAdd), iri)
	if err != nil {
		// Nothing is stored for an Add, so a failed lookup does not call for a redelivery.
		log.Warn().Err(err).Str("id", iri.String()).Msg("could not look up shelve activity")
		return nil
	}

	log.Debug().Str("id", iri.String()).Bool("known", exists).Msg("received shelve activity")
	return nil
}
