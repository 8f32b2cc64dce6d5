package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"codeberg.org/gruf/go-mutexes"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/client"
	"github.com/sidereusnuntius/readfed/internal/conversions"
	"github.com/sidereusnuntius/readfed/internal/db"
	"github.com/sidereusnuntius/readfed/internal/domain"
	"github.com/sidereusnuntius/readfed/internal/federation"
)

type Fetcher interface {
	GetJSON(ctx context.Context, iri *url.URL) (map[string]any, error)
}

// Resolver returns the local representation of an actor, fetching it from its server the first time it is
// referenced.
type Resolver struct {
	DB      db.Actors
	fetcher Fetcher
	timeout time.Duration
	locks   *mutexes.MutexMap
}

func New(DB db.Actors, fetcher Fetcher, timeout time.Duration) *Resolver {
	locks := mutexes.MutexMap{}
	return &Resolver{
		DB:      DB,
		fetcher: fetcher,
		timeout: timeout,
		locks:   &locks,
	}
}

func (r *Resolver) Resolve(ctx context.Context, iri *url.URL) (domain.Actor, error) {
	actor, err := r.DB.GetActorByIRI(ctx, iri)
	if err == nil {
		return actor, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return domain.Actor{}, err
	}

	unlock := r.locks.Lock(iri.String())
	defer unlock()

	// Another request may have stored it while we waited for the lock.
	actor, err = r.DB.GetActorByIRI(ctx, iri)
	if err == nil {
		return actor, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return domain.Actor{}, err
	}

	actor, err = r.fetch(ctx, iri)
	if err != nil {
		return domain.Actor{}, err
	}
	actor.Local = false

	actor, err = r.DB.FindOrCreateActor(ctx, actor)
	if err != nil {
		return domain.Actor{}, err
	}
	log.Info().Str("iri", iri.String()).Int64("id", actor.ID).Msg("resolved remote actor")
	return actor, nil
}

func (r *Resolver) fetch(ctx context.Context, iri *url.URL) (domain.Actor, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	doc, err := r.fetcher.GetJSON(ctx, iri)
	if err != nil {
		if client.IsGone(err) {
			return domain.Actor{}, fmt.Errorf("%w: actor %s: %w", federation.ErrReferentNotFound, iri, err)
		}
		return domain.Actor{}, fmt.Errorf("%w: actor %s: %w", federation.ErrFetch, iri, err)
	}

	actor, err := conversions.ActorFromDocument(ctx, doc)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: actor %s: %w", federation.ErrFetch, iri, err)
	}

	if actor.ApId == nil || actor.ApId.String() != iri.String() {
		return domain.Actor{}, fmt.Errorf("%w: document at %s has id %v", federation.ErrFetch, iri, actor.ApId)
	}
	if actor.Inbox == nil {
		return domain.Actor{}, fmt.Errorf("%w: actor %s has no inbox", federation.ErrFetch, iri)
	}
	return actor, nil
}
