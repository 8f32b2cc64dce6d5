package impl

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/sidereusnuntius/readfed/internal/db"
	"github.com/sidereusnuntius/readfed/internal/db/impl/queries"
	"github.com/sidereusnuntius/readfed/internal/domain"
)

func (d *dbImpl) InsertActivityIfAbsent(ctx context.Context, activity domain.ActivityRecord) (id int64, inserted bool, err error) {
	if activity.Iri == nil {
		return 0, false, fmt.Errorf("%w: activity without IRI", db.ErrInternal)
	}

	err = d.WithTx(ctx, func(tx *queries.Queries) error {
		id, err = tx.InsertActivityIfAbsent(ctx, activityParams(activity))
		if err != nil {
			return err
		}
		if id != 0 {
			inserted = true
			return nil
		}
		id, err = tx.GetActivityID(ctx, activity.Kind, activity.Iri.String())
		return err
	})
	return id, inserted, d.HandleError(err)
}

func (d *dbImpl) ActivityExists(ctx context.Context, kind string, iri *url.URL) (bool, error) {
	exists, err := d.queries.ActivityExists(ctx, kind, iri.String())
	return exists, d.HandleError(err)
}

func (d *dbImpl) GetStatus(ctx context.Context, id int64) (domain.ActivityRecord, error) {
	a, err := d.queries.GetActivity(ctx, id)
	if err != nil {
		return domain.ActivityRecord{}, fmt.Errorf("%w: status %d", d.HandleError(err), id)
	}

	iri, err := url.Parse(a.ApID)
	if err != nil {
		return domain.ActivityRecord{}, fmt.Errorf("%w: failed to parse activity IRI: %s", db.ErrInternal, a.ApID)
	}

	return domain.ActivityRecord{
		ID:       a.ID,
		Iri:      iri,
		Kind:     a.Kind,
		SubType:  a.SubType,
		ActorID:  a.UserID,
		RawJSON:  a.RawJson,
		BookID:   a.BookID.Int64,
		ReviewID: a.ReviewID.Int64,
	}, nil
}

func (d *dbImpl) GetActivityByIRI(ctx context.Context, kind string, iri *url.URL) (domain.ActivityRecord, error) {
	id, err := d.queries.GetActivityID(ctx, kind, iri.String())
	if err != nil {
		return domain.ActivityRecord{}, fmt.Errorf("%w: %s activity %s", d.HandleError(err), kind, iri)
	}
	return d.GetStatus(ctx, id)
}

func (d *dbImpl) CreateRemoteReview(ctx context.Context, review domain.Review, activity domain.ActivityRecord) (r domain.Review, inserted bool, err error) {
	if activity.Iri == nil {
		return domain.Review{}, false, fmt.Errorf("%w: activity without IRI", db.ErrInternal)
	}

	now := time.Now()
	err = d.WithTx(ctx, func(tx *queries.Queries) error {
		activityId, err := tx.InsertActivityIfAbsent(ctx, activityParams(activity))
		if err != nil || activityId == 0 {
			return err
		}

		bookId, err := tx.GetOrCreateBook(ctx, review.Book.Key)
		if err != nil {
			return err
		}

		rating := sql.NullInt64{}
		if review.Rating != nil {
			rating = sql.NullInt64{Valid: true, Int64: int64(*review.Rating)}
		}
		reviewId, err := tx.InsertReview(ctx, queries.InsertReviewParams{
			UserID:  review.UserID,
			BookID:  bookId,
			Name:    review.Name,
			Content: review.Content,
			Rating:  rating,
			Created: now.Unix(),
		})
		if err != nil {
			return err
		}

		if err = tx.LinkActivityReview(ctx, bookId, reviewId, activityId); err != nil {
			return err
		}

		inserted = true
		r = review
		r.ID = reviewId
		r.Book.ID = bookId
		r.Created = now
		return nil
	})
	return r, inserted, d.HandleError(err)
}

func (d *dbImpl) GetReviewByID(ctx context.Context, id int64) (domain.Review, error) {
	row, err := d.queries.GetReview(ctx, id)
	if err != nil {
		return domain.Review{}, fmt.Errorf("%w: review %d", d.HandleError(err), id)
	}

	r := domain.Review{
		ID:      row.ID,
		UserID:  row.UserID,
		Book:    domain.Book{ID: row.BookID, Key: row.BookKey},
		Name:    row.Name,
		Content: row.Content,
		Created: time.Unix(row.Created, 0),
	}
	if row.Rating.Valid {
		rating := int(row.Rating.Int64)
		r.Rating = &rating
	}
	return r, nil
}

func (d *dbImpl) Follow(ctx context.Context, follow domain.Follow) (inserted bool, err error) {
	apId := sql.NullString{}
	if follow.IRI != nil {
		apId = sql.NullString{Valid: true, String: follow.IRI.String()}
	}

	err = d.WithTx(ctx, func(tx *queries.Queries) error {
		if apId.Valid {
			exists, err := tx.FollowExists(ctx, apId.String)
			if err != nil || exists {
				return err
			}
		}

		err := tx.UpsertFollow(ctx, queries.UpsertFollowParams{
			ApID:       apId,
			FollowerID: follow.Follower,
			FolloweeID: follow.Followee,
			RawJson:    follow.Raw,
			Accepted:   follow.Accepted,
			Created:    time.Now().Unix(),
		})
		if err != nil {
			return err
		}
		inserted = true
		return nil
	})
	return inserted, d.HandleError(err)
}

func (d *dbImpl) GetFollowByIRI(ctx context.Context, iri *url.URL) (domain.Follow, error) {
	f, err := d.queries.GetFollowByApID(ctx, iri.String())
	if err != nil {
		return domain.Follow{}, fmt.Errorf("%w: follow %s", d.HandleError(err), iri)
	}

	return domain.Follow{
		IRI:      iri,
		Follower: f.FollowerID,
		Followee: f.FolloweeID,
		Raw:      f.RawJson,
		Accepted: f.Accepted,
	}, nil
}

func (d *dbImpl) GetFollowers(ctx context.Context, actorID int64) ([]*url.URL, error) {
	followers, err := d.queries.GetFollowers(ctx, actorID)
	if err != nil {
		return nil, d.HandleError(err)
	}
	return parseIRIs(followers)
}

func (d *dbImpl) GetFollowing(ctx context.Context, actorID int64) ([]*url.URL, error) {
	following, err := d.queries.GetFollowing(ctx, actorID)
	if err != nil {
		return nil, d.HandleError(err)
	}
	return parseIRIs(following)
}

func activityParams(a domain.ActivityRecord) queries.InsertActivityParams {
	return queries.InsertActivityParams{
		ApID:    a.Iri.String(),
		Kind:    a.Kind,
		SubType: a.SubType,
		UserID:  a.ActorID,
		RawJson: a.RawJSON,
		BookID: sql.NullInt64{
			Valid: a.BookID != 0,
			Int64: a.BookID,
		},
		ReviewID: sql.NullInt64{
			Valid: a.ReviewID != 0,
			Int64: a.ReviewID,
		},
		Created: time.Now().Unix(),
	}
}

func parseIRIs(raw []string) ([]*url.URL, error) {
	uris := make([]*url.URL, len(raw))
	for i, s := range raw {
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse IRI %s", db.ErrInternal, s)
		}
		uris[i] = u
	}
	return uris, nil
}
