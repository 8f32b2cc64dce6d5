package inbox

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/activity"
	"github.com/sidereusnuntius/readfed/internal/db"
	"github.com/sidereusnuntius/readfed/internal/domain"
	"github.com/sidereusnuntius/readfed/internal/federation"
	"github.com/sidereusnuntius/readfed/internal/validate"
)

// Create records a created object. Reviews of books are interpreted: a review by a remote actor is stored as a
// new review, while one by a local user must already exist. Any other object is recorded as is.
func (i *Inbox) Create(ctx context.Context, c *activity.Create) error {
	iri, err := activityIRI(&c.Envelope)
	if err != nil {
		return err
	}

	actorIRI, err := property("actor", c.Actor)
	if err != nil {
		return err
	}

	actor, err := i.resolver.Resolve(ctx, actorIRI)
	if err != nil {
		return err
	}

	if c.Object == nil {
		return fmt.Errorf("%w: object", federation.ErrMissingProperty)
	}

	record := domain.ActivityRecord{
		Iri:     iri,
		Kind:    string(activity.KindCreate),
		SubType: c.Object.Type,
		ActorID: actor.ID,
		RawJSON: c.Raw,
	}

	switch {
	case !c.IsReview():
		return i.record(ctx, record)
	case actor.Local:
		return i.localReview(ctx, actor, c.Object, record)
	default:
		return i.remoteReview(ctx, actor, c.Object, record)
	}
}

func (i *Inbox) record(ctx context.Context, record domain.ActivityRecord) error {
	_, inserted, err := i.DB.InsertActivityIfAbsent(ctx, record)
	if err != nil {
		return err
	}
	log.Debug().Str("id", record.Iri.String()).
		Str("subtype", record.SubType).
		Bool("new", inserted).
		Msg("recorded activity")
	return nil
}

func (i *Inbox) localReview(ctx context.Context, actor domain.Actor, obj *activity.Object, record domain.ActivityRecord) error {
	id, err := strconv.ParseInt(obj.LocalID(), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: review %s", federation.ErrReferentNotFound, obj.ID)
	}

	review, err := i.DB.GetReviewByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: review %s", federation.ErrReferentNotFound, obj.ID)
	}
	if err != nil {
		return err
	}
	if review.UserID != actor.ID {
		return fmt.Errorf("%w: review %s by %s", federation.ErrReferentNotFound, obj.ID, actor.ApId)
	}

	record.BookID = review.Book.ID
	record.ReviewID = review.ID
	return i.record(ctx, record)
}

func (i *Inbox) remoteReview(ctx context.Context, actor domain.Actor, obj *activity.Object, record domain.ActivityRecord) error {
	rating, err := validate.Review(obj.Name, obj.BookKey(), obj.Rating)
	if err != nil {
		return err
	}

	review, inserted, err := i.DB.CreateRemoteReview(ctx, domain.Review{
		UserID:  actor.ID,
		Book:    domain.Book{Key: obj.BookKey()},
		Name:    obj.Name,
		Content: obj.Content,
		Rating:  rating,
	}, record)
	if err != nil {
		return err
	}

	if !inserted {
		log.Debug().Str("id", record.Iri.String()).Msg("review already recorded")
		return nil
	}
	log.Info().Str("actor", actor.ApId.String()).
		Str("book", review.Book.Key).
		Int64("review", review.ID).
		Msg("new remote review")
	return nil
}
